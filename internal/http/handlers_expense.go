package http

import (
	"errors"
	"net/http"

	"wydatki/internal/core"
)

var errExpenseNotFound = errors.New("expense not found")

// expenseForm carries raw string input for a new expense; parsing and
// validation happen in the core, not here.
type expenseForm struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Category string `json:"category"`
	DateISO  string `json:"dateISO"`
	Note     string `json:"note"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var form expenseForm
	if err := readJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	draft, err := core.ParseDraft(core.RawDraft{
		Amount:   form.Amount,
		Currency: form.Currency,
		Category: form.Category,
		DateISO:  form.DateISO,
		Note:     form.Note,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if issues := core.Validate(draft); len(issues) > 0 {
		writeIssues(w, issues)
		return
	}

	expense := core.NewExpense(s.newID(), draft)
	if _, err := s.store.Dispatch(r.Context(), core.AddExpense{Expense: expense}); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to add expense",
			"error", err,
			"expense_id", expense.ID,
			"category", expense.Category)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseDTO(expense))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toExpenseDTOs(s.store.Visible()))
}

// expensePatch mirrors core.ExpensePatch on the wire: absent fields
// stay untouched.
type expensePatch struct {
	Amount   *float64 `json:"amount"`
	Currency *string  `json:"currency"`
	Category *string  `json:"category"`
	DateISO  *string  `json:"dateISO"`
	Note     *string  `json:"note"`
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.expenseExists(id) {
		writeError(w, http.StatusNotFound, errExpenseNotFound)
		return
	}

	var body expensePatch
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	patch := core.ExpensePatch{
		Amount:   body.Amount,
		Category: body.Category,
		DateISO:  body.DateISO,
		Note:     body.Note,
	}
	if body.Amount != nil && *body.Amount <= 0 {
		writeError(w, http.StatusUnprocessableEntity, core.ErrAmountNotPositive)
		return
	}
	if body.Currency != nil {
		currency, err := core.ParseCurrency(*body.Currency)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		patch.Currency = &currency
	}

	state, err := s.store.Dispatch(r.Context(), core.EditExpense{ID: id, Patch: patch})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	for _, e := range state.Expenses {
		if e.ID == id {
			writeJSON(w, http.StatusOK, toExpenseDTO(e))
			return
		}
	}
	writeError(w, http.StatusNotFound, errExpenseNotFound)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.expenseExists(id) {
		writeError(w, http.StatusNotFound, errExpenseNotFound)
		return
	}

	if _, err := s.store.Dispatch(r.Context(), core.DeleteExpense{ID: id}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) expenseExists(id string) bool {
	for _, e := range s.store.State().Expenses {
		if e.ID == id {
			return true
		}
	}
	return false
}
