package core

import "strings"

// Reduce is the single state-transition function: it maps the current
// state and an action to a brand-new state. The input state is never
// mutated. An action kind the reducer does not recognize returns the
// input unchanged rather than failing, so callers can dispatch actions
// from newer code against an older core.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case AddExpense:
		return reduceAdd(s, act.Expense)
	case EditExpense:
		return reduceEdit(s, act.ID, act.Patch)
	case DeleteExpense:
		return reduceDelete(s, act.ID)
	case SetFilters:
		out := s.Clone()
		out.Filters = ReconcileFilterDates(s.Filters, act.Patch)
		return out
	case SetSort:
		out := s.Clone()
		out.Sort = act.Mode
		return out
	case AddCategory:
		return reduceAddCategory(s, act.Name)
	case SetCurrency:
		out := s.Clone()
		out.Currency = act.Code
		return out
	case SetRates:
		return reduceSetRates(s, act.Rates, act.Label)
	case ReplaceState:
		return act.State.Clone()
	case MergeState:
		return reduceMerge(s, act.Incoming)
	default:
		return s
	}
}

func reduceAdd(s State, e Expense) State {
	out := s.Clone()
	out.Expenses = append([]Expense{e}, out.Expenses...)
	if e.Category != "" && !containsString(out.Categories, e.Category) {
		out.Categories = append(out.Categories, e.Category)
	}
	return out
}

func reduceEdit(s State, id string, p ExpensePatch) State {
	out := s.Clone()
	for i, e := range out.Expenses {
		if e.ID != id {
			continue
		}
		if p.Amount != nil {
			e.Amount = *p.Amount
		}
		if p.Currency != nil {
			e.Currency = *p.Currency
		}
		if p.Category != nil {
			e.Category = *p.Category
		}
		if p.DateISO != nil {
			e.DateISO = *p.DateISO
		}
		if p.Note != nil {
			e.Note = *p.Note
		}
		out.Expenses[i] = e
		break
	}
	return out
}

func reduceDelete(s State, id string) State {
	out := s.Clone()
	kept := out.Expenses[:0]
	for _, e := range out.Expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	out.Expenses = kept
	return out
}

func reduceAddCategory(s State, name string) State {
	name = strings.TrimSpace(name)
	if name == "" || containsString(s.Categories, name) {
		return s
	}
	out := s.Clone()
	out.Categories = append(out.Categories, name)
	return out
}

// reduceSetRates replaces the rate table slot by slot. A non-positive
// incoming rate leaves the previous value in place, so one bad slot
// cannot corrupt the whole table. The reference currency is always 1.
func reduceSetRates(s State, incoming RateTable, label string) State {
	out := s.Clone()
	rates := make(RateTable, len(Currencies()))
	for _, c := range Currencies() {
		prev, ok := s.Rates[c]
		if !ok || prev <= 0 {
			prev = 1
		}
		rates[c] = prev
		if r, ok := incoming[c]; ok && r > 0 {
			rates[c] = r
		}
	}
	rates[PLN] = 1
	out.Rates = rates
	out.RatesLabel = label
	return out
}

// reduceMerge imports an external state. Expense ids are the sole
// dedup key: colliding ids are assumed to be the same record and the
// local copy wins. Rates, label and display currency stay local.
func reduceMerge(s State, incoming State) State {
	out := s.Clone()

	seen := make(map[string]struct{}, len(out.Expenses))
	for _, e := range out.Expenses {
		seen[e.ID] = struct{}{}
	}
	for _, e := range incoming.Expenses {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out.Expenses = append(out.Expenses, e)
	}

	for _, c := range incoming.Categories {
		if c != "" && !containsString(out.Categories, c) {
			out.Categories = append(out.Categories, c)
		}
	}

	out.Filters = incoming.Filters
	out.Sort = incoming.Sort
	if out.Sort != SortByDate && out.Sort != SortByAmount {
		out.Sort = s.Sort
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
