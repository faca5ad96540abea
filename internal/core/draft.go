package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	ErrAmountEmpty       = errors.New("amount is required")
	ErrAmountInvalid     = errors.New("amount is not a number")
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrCurrencyEmpty     = errors.New("currency is required")
	ErrCategoryEmpty     = errors.New("category is required")
	ErrDateEmpty         = errors.New("date is required")
)

// RawDraft carries untrimmed user input exactly as it arrived from a
// form or an import row.
type RawDraft struct {
	Amount   string
	Currency string
	Category string
	DateISO  string
	Note     string
}

// Draft is an expense without an identifier, pending validation and id
// assignment by the caller.
type Draft struct {
	Amount   float64
	Currency Currency
	Category string
	DateISO  string
	Note     string
}

// Issue is a single field-tagged validation failure.
type Issue struct {
	Field   string
	Message string
}

// ParseDraft trims every field of raw and converts it into a Draft.
// The first failing field wins; each failure mode has a distinct
// error so callers can surface precise messages. Calendar validity of
// the date is deliberately not checked here (Validate does that) —
// only syntactic presence.
func ParseDraft(raw RawDraft) (Draft, error) {
	amountStr := strings.TrimSpace(raw.Amount)
	if amountStr == "" {
		return Draft{}, ErrAmountEmpty
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Draft{}, ErrAmountInvalid
	}
	if amount <= 0 {
		return Draft{}, ErrAmountNotPositive
	}

	currencyStr := strings.TrimSpace(raw.Currency)
	if currencyStr == "" {
		return Draft{}, ErrCurrencyEmpty
	}
	currency, err := ParseCurrency(currencyStr)
	if err != nil {
		return Draft{}, err
	}

	category := strings.TrimSpace(raw.Category)
	if category == "" {
		return Draft{}, ErrCategoryEmpty
	}

	date := strings.TrimSpace(raw.DateISO)
	if date == "" {
		return Draft{}, ErrDateEmpty
	}

	return Draft{
		Amount:   amount,
		Currency: currency,
		Category: category,
		DateISO:  date,
		Note:     strings.TrimSpace(raw.Note),
	}, nil
}

// Validate runs every check independently and accumulates the
// failures; it never short-circuits. An empty result means the draft
// is acceptable for the reducer's add transition.
func Validate(d Draft) []Issue {
	var issues []Issue
	if math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) || d.Amount <= 0 {
		issues = append(issues, Issue{Field: "amount", Message: ErrAmountNotPositive.Error()})
	}
	if !d.Currency.Valid() {
		issues = append(issues, Issue{Field: "currency", Message: ErrUnknownCurrency.Error()})
	}
	if strings.TrimSpace(d.Category) == "" {
		issues = append(issues, Issue{Field: "category", Message: ErrCategoryEmpty.Error()})
	}
	if _, err := ParseDate(strings.TrimSpace(d.DateISO)); err != nil {
		issues = append(issues, Issue{Field: "date", Message: "date is not a valid calendar date"})
	}
	return issues
}

// NewExpense pairs a validated draft with a caller-generated id. The
// core never mints identifiers itself.
func NewExpense(id string, d Draft) Expense {
	return Expense{
		ID:       id,
		Amount:   d.Amount,
		Currency: d.Currency,
		Category: d.Category,
		DateISO:  d.DateISO,
		Note:     d.Note,
	}
}
