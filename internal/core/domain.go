package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PLN Currency = "PLN" // reference currency, rate pinned to 1
	EUR Currency = "EUR"
	USD Currency = "USD"
)

// DateLayout is the calendar date format used throughout the domain.
const DateLayout = "2006-01-02"

// DefaultRatesLabel marks a rate table that holds no real market rates.
const DefaultRatesLabel = "kursy domyślne 1:1"

type (
	// Currency is one of the closed set {PLN, EUR, USD}. PLN is the
	// reference unit every conversion passes through.
	Currency string

	// RateTable maps a currency to its price in the reference unit
	// (PLN per one unit of the currency).
	RateTable map[Currency]float64

	// Expense is an immutable record. The ID is caller-supplied and
	// opaque; the core never generates identifiers.
	Expense struct {
		ID       string
		Amount   float64
		Currency Currency
		Category string
		DateISO  string
		Note     string
	}

	// Filters narrows the visible expense list. Empty string means
	// "not set" for every field; date bounds are inclusive.
	Filters struct {
		DateFrom string
		DateTo   string
		Category string
		Text     string
	}

	// State is the aggregate root. Reducer calls replace it wholesale;
	// nothing in the core mutates a State in place.
	State struct {
		Expenses   []Expense
		Categories []string
		Currency   Currency
		Filters    Filters
		Sort       SortMode
		Rates      RateTable
		RatesLabel string
	}
)

// SortMode selects the ordering of the visible expense list.
type SortMode string

const (
	SortByDate   SortMode = "date"   // newest first
	SortByAmount SortMode = "amount" // largest first
)

var ErrUnknownCurrency = errors.New("unknown currency")

// Currencies returns the closed currency set in display order.
func Currencies() []Currency {
	return []Currency{PLN, EUR, USD}
}

// Valid reports whether c belongs to the closed currency set.
func (c Currency) Valid() bool {
	switch c {
	case PLN, EUR, USD:
		return true
	}
	return false
}

// ParseCurrency uppercases s and matches it against the closed set.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrUnknownCurrency
	}
	return c, nil
}

// DefaultRates returns an identity table: every currency priced at 1.
func DefaultRates() RateTable {
	t := make(RateTable, len(Currencies()))
	for _, c := range Currencies() {
		t[c] = 1
	}
	return t
}

// NewState returns the initial state: no expenses, default categories
// empty, PLN display currency, date-descending sort, identity rates.
func NewState() State {
	return State{
		Expenses:   nil,
		Categories: nil,
		Currency:   PLN,
		Filters:    Filters{},
		Sort:       SortByDate,
		Rates:      DefaultRates(),
		RatesLabel: DefaultRatesLabel,
	}
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// MonthKey returns the YYYY-MM prefix of an ISO date string. Strings
// shorter than seven characters are returned as-is.
func MonthKey(dateISO string) string {
	if len(dateISO) < 7 {
		return dateISO
	}
	return dateISO[:7]
}

func cloneExpenses(in []Expense) []Expense {
	if in == nil {
		return nil
	}
	out := make([]Expense, len(in))
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Clone returns a rate table that shares no storage with t.
func (t RateTable) Clone() RateTable {
	if t == nil {
		return nil
	}
	out := make(RateTable, len(t))
	for c, r := range t {
		out[c] = r
	}
	return out
}

// Clone returns a deep copy of the state. Expense values are plain
// data, so copying the slices and the rate table is enough.
func (s State) Clone() State {
	out := s
	out.Expenses = cloneExpenses(s.Expenses)
	out.Categories = cloneStrings(s.Categories)
	out.Rates = s.Rates.Clone()
	return out
}
