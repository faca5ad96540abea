package core

import (
	"reflect"
	"testing"
)

func TestSummarizeSingleCurrency(t *testing.T) {
	expenses := []Expense{
		{ID: "1", Amount: 10, Currency: PLN, Category: "Dom", DateISO: "2024-01-05"},
		{ID: "2", Amount: 20, Currency: PLN, Category: "Dom", DateISO: "2024-01-20"},
	}
	got := Summarize(expenses, PLN, RateTable{PLN: 1, EUR: 4.3, USD: 3.95})

	if got.Total != 30 {
		t.Fatalf("expected total 30, got %v", got.Total)
	}
	if !reflect.DeepEqual(got.ByCategory, []CategoryTotal{{Name: "Dom", Total: 30}}) {
		t.Fatalf("expected one category bucket of 30, got %+v", got.ByCategory)
	}
	if !reflect.DeepEqual(got.ByMonth, []MonthTotal{{Month: "2024-01", Total: 30}}) {
		t.Fatalf("expected one month bucket of 30, got %+v", got.ByMonth)
	}
}

func TestSummarizeConvertsBeforeAccumulating(t *testing.T) {
	rates := RateTable{PLN: 1, EUR: 4, USD: 2}
	expenses := []Expense{
		{ID: "1", Amount: 10, Currency: EUR, Category: "Podróże", DateISO: "2024-01-05"},
		{ID: "2", Amount: 10, Currency: USD, Category: "Podróże", DateISO: "2024-02-05"},
	}

	got := Summarize(expenses, PLN, rates)
	if got.Total != 60 {
		t.Fatalf("expected 40+20=60 PLN, got %v", got.Total)
	}

	inEUR := Summarize(expenses, EUR, rates)
	if inEUR.Total != 15 {
		t.Fatalf("expected 10+5=15 EUR, got %v", inEUR.Total)
	}
}

func TestSummarizeCategoryOrdering(t *testing.T) {
	expenses := []Expense{
		{ID: "1", Amount: 5, Currency: PLN, Category: "Jedzenie", DateISO: "2024-01-01"},
		{ID: "2", Amount: 50, Currency: PLN, Category: "Dom", DateISO: "2024-01-02"},
		{ID: "3", Amount: 5, Currency: PLN, Category: "Auto", DateISO: "2024-01-03"},
	}
	got := Summarize(expenses, PLN, DefaultRates())

	// Descending by total; the two equal totals fall back to name
	// order so the output is deterministic.
	want := []CategoryTotal{{Name: "Dom", Total: 50}, {Name: "Auto", Total: 5}, {Name: "Jedzenie", Total: 5}}
	if !reflect.DeepEqual(got.ByCategory, want) {
		t.Fatalf("expected %+v, got %+v", want, got.ByCategory)
	}
}

func TestSummarizeMonthOrdering(t *testing.T) {
	expenses := []Expense{
		{ID: "1", Amount: 1, Currency: PLN, Category: "Dom", DateISO: "2023-12-31"},
		{ID: "2", Amount: 2, Currency: PLN, Category: "Dom", DateISO: "2024-02-01"},
		{ID: "3", Amount: 3, Currency: PLN, Category: "Dom", DateISO: "2024-01-15"},
		{ID: "4", Amount: 4, Currency: PLN, Category: "Dom", DateISO: "2024-01-31"},
	}
	got := Summarize(expenses, PLN, DefaultRates())

	want := []MonthTotal{
		{Month: "2024-02", Total: 2},
		{Month: "2024-01", Total: 7},
		{Month: "2023-12", Total: 1},
	}
	if !reflect.DeepEqual(got.ByMonth, want) {
		t.Fatalf("expected %+v, got %+v", want, got.ByMonth)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil, PLN, DefaultRates())
	if got.Total != 0 || len(got.ByCategory) != 0 || len(got.ByMonth) != 0 {
		t.Fatalf("expected empty summary, got %+v", got)
	}
}
