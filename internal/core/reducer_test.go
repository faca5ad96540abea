package core

import (
	"reflect"
	"testing"
)

func sampleState() State {
	s := NewState()
	s.Expenses = []Expense{
		{ID: "a", Amount: 10, Currency: PLN, Category: "Dom", DateISO: "2024-01-10"},
		{ID: "b", Amount: 20, Currency: EUR, Category: "Jedzenie", DateISO: "2024-01-20", Note: "kolacja"},
	}
	s.Categories = []string{"Dom", "Jedzenie"}
	s.Rates = RateTable{PLN: 1, EUR: 4.3, USD: 3.95}
	s.RatesLabel = "NBP 2024-01-02"
	return s
}

func TestReduceAddPrependsAndRegistersCategory(t *testing.T) {
	s := sampleState()
	e := Expense{ID: "c", Amount: 5, Currency: USD, Category: "Podróże", DateISO: "2024-02-01"}

	got := Reduce(s, AddExpense{Expense: e})

	if len(got.Expenses) != 3 || got.Expenses[0].ID != "c" {
		t.Fatalf("expected prepend, got %+v", got.Expenses)
	}
	if !reflect.DeepEqual(got.Categories, []string{"Dom", "Jedzenie", "Podróże"}) {
		t.Fatalf("expected new category appended, got %v", got.Categories)
	}
	if len(s.Expenses) != 2 {
		t.Fatalf("input state was mutated")
	}
}

func TestReduceAddKnownCategoryNotDuplicated(t *testing.T) {
	s := sampleState()
	got := Reduce(s, AddExpense{Expense: Expense{ID: "c", Amount: 1, Currency: PLN, Category: "Dom", DateISO: "2024-02-01"}})
	if !reflect.DeepEqual(got.Categories, s.Categories) {
		t.Fatalf("expected categories unchanged, got %v", got.Categories)
	}
}

func TestReduceAddThenDeleteRestoresExpenseSet(t *testing.T) {
	s := sampleState()
	e := Expense{ID: "c", Amount: 5, Currency: PLN, Category: "Dom", DateISO: "2024-02-01"}

	got := Reduce(Reduce(s, AddExpense{Expense: e}), DeleteExpense{ID: "c"})

	if !reflect.DeepEqual(got.Expenses, s.Expenses) {
		t.Fatalf("expected original expenses back, got %+v", got.Expenses)
	}
}

func TestReduceEdit(t *testing.T) {
	s := sampleState()
	amount := 99.5
	note := "poprawiona"
	got := Reduce(s, EditExpense{ID: "b", Patch: ExpensePatch{Amount: &amount, Note: &note}})

	e := got.Expenses[1]
	if e.Amount != 99.5 || e.Note != "poprawiona" {
		t.Fatalf("patch not applied: %+v", e)
	}
	if e.Currency != EUR || e.Category != "Jedzenie" || e.DateISO != "2024-01-20" {
		t.Fatalf("untouched fields changed: %+v", e)
	}
	if s.Expenses[1].Amount != 20 {
		t.Fatalf("input state was mutated")
	}
}

func TestReduceEditUnknownIDIsNoop(t *testing.T) {
	s := sampleState()
	amount := 1.0
	got := Reduce(s, EditExpense{ID: "missing", Patch: ExpensePatch{Amount: &amount}})
	if !reflect.DeepEqual(got.Expenses, s.Expenses) {
		t.Fatalf("expected no change, got %+v", got.Expenses)
	}
}

func TestReduceDeleteUnknownIDIsNoop(t *testing.T) {
	s := sampleState()
	got := Reduce(s, DeleteExpense{ID: "missing"})
	if !reflect.DeepEqual(got.Expenses, s.Expenses) {
		t.Fatalf("expected no change, got %+v", got.Expenses)
	}
}

func TestReduceAddCategory(t *testing.T) {
	s := sampleState()

	got := Reduce(s, AddCategory{Name: "  Zdrowie  "})
	if !reflect.DeepEqual(got.Categories, []string{"Dom", "Jedzenie", "Zdrowie"}) {
		t.Fatalf("expected trimmed append, got %v", got.Categories)
	}

	// Idempotent: known names and blanks are no-ops.
	again := Reduce(got, AddCategory{Name: "Zdrowie"})
	if !reflect.DeepEqual(again.Categories, got.Categories) {
		t.Fatalf("expected no duplicate, got %v", again.Categories)
	}
	blank := Reduce(got, AddCategory{Name: "   "})
	if !reflect.DeepEqual(blank.Categories, got.Categories) {
		t.Fatalf("expected blank ignored, got %v", blank.Categories)
	}
}

func TestReduceSetCurrencyLeavesRatesAlone(t *testing.T) {
	s := sampleState()
	got := Reduce(s, SetCurrency{Code: EUR})
	if got.Currency != EUR {
		t.Fatalf("expected EUR, got %v", got.Currency)
	}
	if !reflect.DeepEqual(got.Rates, s.Rates) || got.RatesLabel != s.RatesLabel {
		t.Fatalf("rates must not change on currency switch")
	}
}

func TestReduceSetSort(t *testing.T) {
	got := Reduce(sampleState(), SetSort{Mode: SortByAmount})
	if got.Sort != SortByAmount {
		t.Fatalf("expected amount sort, got %v", got.Sort)
	}
}

func TestReduceSetRates(t *testing.T) {
	s := sampleState()
	got := Reduce(s, SetRates{
		Rates: RateTable{EUR: 4.5, USD: -2, PLN: 7},
		Label: "NBP 2024-02-01",
	})

	if got.Rates[EUR] != 4.5 {
		t.Fatalf("expected EUR updated, got %v", got.Rates[EUR])
	}
	// A non-positive slot keeps its previous value instead of
	// poisoning the table.
	if got.Rates[USD] != 3.95 {
		t.Fatalf("expected USD retained, got %v", got.Rates[USD])
	}
	if got.Rates[PLN] != 1 {
		t.Fatalf("reference currency must stay pinned to 1, got %v", got.Rates[PLN])
	}
	if got.RatesLabel != "NBP 2024-02-01" {
		t.Fatalf("expected label replaced, got %q", got.RatesLabel)
	}
}

func TestReduceSetFiltersReconciles(t *testing.T) {
	s := sampleState()
	from := "2024-02-01"
	to := "2024-01-01"
	got := Reduce(Reduce(s, SetFilters{Patch: FilterPatch{DateTo: &to}}), SetFilters{Patch: FilterPatch{DateFrom: &from}})
	if got.Filters.DateFrom != "2024-02-01" || got.Filters.DateTo != "2024-02-01" {
		t.Fatalf("expected to-bound snapped, got %+v", got.Filters)
	}
}

func TestReduceReplaceState(t *testing.T) {
	incoming := NewState()
	incoming.Expenses = []Expense{{ID: "x", Amount: 1, Currency: PLN, Category: "Inne", DateISO: "2023-05-05"}}
	got := Reduce(sampleState(), ReplaceState{State: incoming})
	if !reflect.DeepEqual(got.Expenses, incoming.Expenses) || got.Currency != PLN {
		t.Fatalf("expected wholesale substitution, got %+v", got)
	}
}

func TestReduceMergeState(t *testing.T) {
	s := sampleState()
	incoming := NewState()
	incoming.Expenses = []Expense{
		{ID: "b", Amount: 999, Currency: USD, Category: "Kolizja", DateISO: "2020-01-01"},
		{ID: "z", Amount: 7, Currency: USD, Category: "Podróże", DateISO: "2024-03-03"},
	}
	incoming.Categories = []string{"Jedzenie", "Podróże"}
	incoming.Currency = USD
	incoming.Rates = RateTable{PLN: 1, EUR: 9, USD: 9}
	incoming.RatesLabel = "obce kursy"

	got := Reduce(s, MergeState{Incoming: incoming})

	ids := make([]string, len(got.Expenses))
	for i, e := range got.Expenses {
		ids[i] = e.ID
	}
	if !reflect.DeepEqual(ids, []string{"a", "b", "z"}) {
		t.Fatalf("expected id-deduplicated append, got %v", ids)
	}
	// Colliding ids are assumed identical records; the local copy wins.
	if got.Expenses[1].Amount != 20 {
		t.Fatalf("local record must win on id collision, got %+v", got.Expenses[1])
	}
	if !reflect.DeepEqual(got.Categories, []string{"Dom", "Jedzenie", "Podróże"}) {
		t.Fatalf("expected category union, got %v", got.Categories)
	}
	// Local currency and rate settings survive a merge import.
	if got.Currency != s.Currency || !reflect.DeepEqual(got.Rates, s.Rates) || got.RatesLabel != s.RatesLabel {
		t.Fatalf("merge must preserve local currency and rates")
	}
}

func TestReduceMergeIsIdempotent(t *testing.T) {
	s := sampleState()
	incoming := NewState()
	incoming.Expenses = []Expense{{ID: "z", Amount: 7, Currency: USD, Category: "Podróże", DateISO: "2024-03-03"}}
	incoming.Categories = []string{"Dom"}

	once := Reduce(s, MergeState{Incoming: incoming})
	twice := Reduce(once, MergeState{Incoming: incoming})

	if !reflect.DeepEqual(once.Expenses, twice.Expenses) {
		t.Fatalf("merging twice must equal merging once")
	}
	if !reflect.DeepEqual(once.Categories, twice.Categories) {
		t.Fatalf("categories must be stable under repeated merge")
	}
}

// Forward-compatibility: an action kind the reducer does not know is a
// no-op, not an error.
type unknownAction struct{}

func (unknownAction) isAction() {}

func TestReduceUnknownActionIsNoop(t *testing.T) {
	s := sampleState()
	got := Reduce(s, unknownAction{})
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("expected input state unchanged")
	}
}
