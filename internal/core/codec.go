package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedDocument tags every Deserialize failure: syntactically
// invalid JSON, a non-object root, or missing required arrays.
var ErrMalformedDocument = errors.New("malformed state document")

type (
	stateDoc struct {
		Expenses   []expenseDoc       `json:"expenses"`
		Categories []string           `json:"categories"`
		Currency   string             `json:"currency"`
		Filters    filtersDoc         `json:"filters"`
		Sort       string             `json:"sort"`
		FxPLN      map[string]float64 `json:"fxPLN"`
		FxLabel    string             `json:"fxLabel"`
	}

	expenseDoc struct {
		ID       string  `json:"id"`
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Category string  `json:"category"`
		DateISO  string  `json:"dateISO"`
		Note     string  `json:"note"`
	}

	filtersDoc struct {
		DateFrom string `json:"dateFrom"`
		DateTo   string `json:"dateTo"`
		Category string `json:"category"`
		Text     string `json:"text"`
	}
)

// Serialize encodes the state as the flat JSON document used for
// storage and export. There is no schema version; unknown fields never
// round-trip.
func Serialize(s State) ([]byte, error) {
	doc := stateDoc{
		Expenses:   make([]expenseDoc, 0, len(s.Expenses)),
		Categories: make([]string, 0, len(s.Categories)),
		Currency:   string(s.Currency),
		Filters: filtersDoc{
			DateFrom: s.Filters.DateFrom,
			DateTo:   s.Filters.DateTo,
			Category: s.Filters.Category,
			Text:     s.Filters.Text,
		},
		Sort:    string(s.Sort),
		FxPLN:   make(map[string]float64, len(s.Rates)),
		FxLabel: s.RatesLabel,
	}
	for _, e := range s.Expenses {
		doc.Expenses = append(doc.Expenses, expenseDoc{
			ID:       e.ID,
			Amount:   e.Amount,
			Currency: string(e.Currency),
			Category: e.Category,
			DateISO:  e.DateISO,
			Note:     e.Note,
		})
	}
	doc.Categories = append(doc.Categories, s.Categories...)
	for c, r := range s.Rates {
		doc.FxPLN[string(c)] = r
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return out, nil
}

// Deserialize decodes a state document defensively. Scalar fields of
// an expense entry are coerced to usable values first (missing id →
// empty string, missing amount → 0, invalid currency → PLN); the whole
// entry is then dropped when, after coercion, the id, category or date
// is empty or the amount is not positive. Repair scalars, drop broken
// records — losing one bad entry beats importing corrupt data. Rates,
// sort mode and filters self-heal to defaults per field. Only a
// document that is not valid JSON, whose root is not an object, or
// that lacks the expenses/categories arrays is an error.
func Deserialize(data []byte) (State, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	rawExpenses, ok := root["expenses"]
	if !ok {
		return State{}, fmt.Errorf("%w: missing expenses array", ErrMalformedDocument)
	}
	var expenseEntries []json.RawMessage
	if err := json.Unmarshal(rawExpenses, &expenseEntries); err != nil {
		return State{}, fmt.Errorf("%w: expenses is not an array", ErrMalformedDocument)
	}

	rawCategories, ok := root["categories"]
	if !ok {
		return State{}, fmt.Errorf("%w: missing categories array", ErrMalformedDocument)
	}
	var categoryEntries []json.RawMessage
	if err := json.Unmarshal(rawCategories, &categoryEntries); err != nil {
		return State{}, fmt.Errorf("%w: categories is not an array", ErrMalformedDocument)
	}

	s := NewState()
	s.Expenses = decodeExpenses(expenseEntries)
	s.Categories = decodeCategories(categoryEntries)

	if c, err := ParseCurrency(coerceString(root["currency"])); err == nil {
		s.Currency = c
	}
	s.Filters = decodeFilters(root["filters"])
	if coerceString(root["sort"]) == string(SortByAmount) {
		s.Sort = SortByAmount
	}
	s.Rates = decodeRates(root["fxPLN"])
	if label, isString := coerceLabel(root["fxLabel"]); isString {
		s.RatesLabel = label
	}
	return s, nil
}

func decodeExpenses(entries []json.RawMessage) []Expense {
	out := make([]Expense, 0, len(entries))
	for _, raw := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			// Not an object: every coerced field defaults, so the
			// record gate below would drop it anyway.
			continue
		}
		e := Expense{
			ID:       coerceString(fields["id"]),
			Amount:   coerceNumber(fields["amount"]),
			Currency: PLN,
			Category: coerceString(fields["category"]),
			DateISO:  coerceString(fields["dateISO"]),
			Note:     coerceString(fields["note"]),
		}
		if c, err := ParseCurrency(coerceString(fields["currency"])); err == nil {
			e.Currency = c
		}
		// The record gate runs after all per-field coercion, never
		// interleaved with it: a record that still lacks identity,
		// category, date or a positive amount is dropped whole.
		if e.ID == "" || e.Category == "" || e.DateISO == "" {
			continue
		}
		if e.Amount <= 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func decodeCategories(entries []json.RawMessage) []string {
	out := make([]string, 0, len(entries))
	for _, raw := range entries {
		c := coerceString(raw)
		if c == "" || containsString(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func decodeFilters(raw json.RawMessage) Filters {
	var fields map[string]json.RawMessage
	if raw == nil || json.Unmarshal(raw, &fields) != nil {
		return Filters{}
	}
	return Filters{
		DateFrom: coerceString(fields["dateFrom"]),
		DateTo:   coerceString(fields["dateTo"]),
		Category: coerceString(fields["category"]),
		Text:     coerceString(fields["text"]),
	}
}

// decodeRates heals the table per currency: a slot that is missing,
// non-numeric or non-positive falls back to 1 without affecting the
// other slots. The reference currency is pinned regardless.
func decodeRates(raw json.RawMessage) RateTable {
	rates := DefaultRates()
	var fields map[string]json.RawMessage
	if raw == nil || json.Unmarshal(raw, &fields) != nil {
		return rates
	}
	for _, c := range Currencies() {
		if r := coerceNumber(fields[string(c)]); r > 0 && !math.IsInf(r, 0) {
			rates[c] = r
		}
	}
	rates[PLN] = 1
	return rates
}

// coerceString turns a JSON scalar into a string: strings decode,
// numbers and booleans format, everything else (null, objects, arrays,
// absent) becomes empty.
func coerceString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// coerceNumber turns a JSON scalar into a float64: numbers decode,
// numeric strings parse, everything else becomes 0.
func coerceNumber(raw json.RawMessage) float64 {
	if raw == nil {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// coerceLabel reports whether the raw value was an actual string; any
// other shape keeps the default provenance label.
func coerceLabel(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
