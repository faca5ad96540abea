package core

import (
	"sort"
	"strings"
	"time"
)

// SelectVisible returns the filtered, sorted view of the expenses for
// the state's current filters and sort mode. Neither the state nor its
// expense slice is modified. The selector assumes the filters went
// through ReconcileFilterDates, so DateFrom <= DateTo whenever both
// are present.
func SelectVisible(s State) []Expense {
	return SortExpenses(FilterExpenses(s.Expenses, s.Filters), s.Sort)
}

// FilterExpenses applies the date-range, category and note-text
// filters in that order. An expense whose date does not parse is
// excluded only when a date bound forces a comparison; with no bounds
// set it passes through.
func FilterExpenses(expenses []Expense, f Filters) []Expense {
	from, hasFrom := parseBound(f.DateFrom)
	to, hasTo := parseBound(f.DateTo)
	category := f.Category
	text := strings.ToLower(strings.TrimSpace(f.Text))

	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if hasFrom || hasTo {
			d, err := ParseDate(e.DateISO)
			if err != nil {
				continue
			}
			if hasFrom && d.Before(from) {
				continue
			}
			if hasTo && d.After(to) {
				continue
			}
		}
		if category != "" && e.Category != category {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(e.Note), text) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortExpenses returns a new slice ordered by the given mode. The sort
// is stable: ties keep their input order. Date ordering is newest
// first, amount ordering largest first.
func SortExpenses(expenses []Expense, mode SortMode) []Expense {
	out := make([]Expense, len(expenses))
	copy(out, expenses)

	switch mode {
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount > out[j].Amount
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			di, erri := ParseDate(out[i].DateISO)
			dj, errj := ParseDate(out[j].DateISO)
			switch {
			case erri != nil && errj != nil:
				return false
			case erri != nil:
				return false // unparseable dates sink to the end
			case errj != nil:
				return true
			}
			return di.After(dj)
		})
	}
	return out
}

// parseBound treats an empty or unparseable bound as unset, so a
// malformed filter value relaxes the filter instead of hiding
// everything.
func parseBound(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
