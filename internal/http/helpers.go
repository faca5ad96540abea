package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"wydatki/internal/core"
)

// maxBodySize caps request bodies; import documents are the largest
// legitimate payload and stay well under this.
const maxBodySize = 4 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type issuesResponse struct {
	Issues []issueDTO `json:"issues"`
}

type issueDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeIssues(w http.ResponseWriter, issues []core.Issue) {
	out := issuesResponse{Issues: make([]issueDTO, 0, len(issues))}
	for _, is := range issues {
		out.Issues = append(out.Issues, issueDTO{Field: is.Field, Message: is.Message})
	}
	writeJSON(w, http.StatusUnprocessableEntity, out)
}

func readJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Wire DTOs reuse the persisted key names so API clients and export
// files agree on field spelling.

type expenseDTO struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Category string  `json:"category"`
	DateISO  string  `json:"dateISO"`
	Note     string  `json:"note"`
}

func toExpenseDTO(e core.Expense) expenseDTO {
	return expenseDTO{
		ID:       e.ID,
		Amount:   e.Amount,
		Currency: string(e.Currency),
		Category: e.Category,
		DateISO:  e.DateISO,
		Note:     e.Note,
	}
}

func toExpenseDTOs(expenses []core.Expense) []expenseDTO {
	out := make([]expenseDTO, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseDTO(e))
	}
	return out
}

type summaryDTO struct {
	Currency   string             `json:"currency"`
	Total      float64            `json:"total"`
	ByCategory []categoryTotalDTO `json:"byCategory"`
	ByMonth    []monthTotalDTO    `json:"byMonth"`
}

type categoryTotalDTO struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type monthTotalDTO struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

func toSummaryDTO(s core.Summary) summaryDTO {
	out := summaryDTO{
		Currency:   string(s.Currency),
		Total:      s.Total,
		ByCategory: make([]categoryTotalDTO, 0, len(s.ByCategory)),
		ByMonth:    make([]monthTotalDTO, 0, len(s.ByMonth)),
	}
	for _, c := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryTotalDTO{Name: c.Name, Total: c.Total})
	}
	for _, m := range s.ByMonth {
		out.ByMonth = append(out.ByMonth, monthTotalDTO{Month: m.Month, Total: m.Total})
	}
	return out
}
