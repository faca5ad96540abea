package core

import "sort"

type (
	// CategoryTotal is an aggregated amount for one category, already
	// converted to the summary's target currency.
	CategoryTotal struct {
		Name  string
		Total float64
	}

	// MonthTotal is an aggregated amount for one YYYY-MM key.
	MonthTotal struct {
		Month string
		Total float64
	}

	// Summary is derived and ephemeral: recomputed on demand from the
	// visible expenses, never persisted.
	Summary struct {
		Currency   Currency
		Total      float64
		ByCategory []CategoryTotal
		ByMonth    []MonthTotal
	}
)

// Summarize converts every expense to the target currency and
// accumulates a grand total, per-category totals (largest first, equal
// totals ordered by category name ascending) and per-month totals
// (newest month first). The per-category tie rule is a local choice
// made to keep the output deterministic.
func Summarize(expenses []Expense, target Currency, rates RateTable) Summary {
	sum := Summary{Currency: target}
	byCategory := make(map[string]float64)
	byMonth := make(map[string]float64)

	for _, e := range expenses {
		v := Convert(e.Amount, e.Currency, target, rates)
		sum.Total += v
		byCategory[e.Category] += v
		byMonth[MonthKey(e.DateISO)] += v
	}

	sum.ByCategory = make([]CategoryTotal, 0, len(byCategory))
	for name, total := range byCategory {
		sum.ByCategory = append(sum.ByCategory, CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(sum.ByCategory, func(i, j int) bool {
		if sum.ByCategory[i].Total != sum.ByCategory[j].Total {
			return sum.ByCategory[i].Total > sum.ByCategory[j].Total
		}
		return sum.ByCategory[i].Name < sum.ByCategory[j].Name
	})

	sum.ByMonth = make([]MonthTotal, 0, len(byMonth))
	for month, total := range byMonth {
		sum.ByMonth = append(sum.ByMonth, MonthTotal{Month: month, Total: total})
	}
	sort.Slice(sum.ByMonth, func(i, j int) bool {
		return sum.ByMonth[i].Month > sum.ByMonth[j].Month
	})

	return sum
}
