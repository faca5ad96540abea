package http

import (
	"errors"
	"net/http"
	"strings"

	"wydatki/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSummaryDTO(s.store.Summary()))
}

// handleState returns the full state in the persisted wire shape, so a
// client can bootstrap from one request.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type filtersBody struct {
	DateFrom *string `json:"dateFrom"`
	DateTo   *string `json:"dateTo"`
	Category *string `json:"category"`
	Text     *string `json:"text"`
}

func (s *Server) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	var body filtersBody
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	state, err := s.store.Dispatch(r.Context(), core.SetFilters{Patch: core.FilterPatch{
		DateFrom: body.DateFrom,
		DateTo:   body.DateTo,
		Category: body.Category,
		Text:     body.Text,
	}})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Echo the reconciled filters: an inverted range comes back
	// already corrected.
	writeJSON(w, http.StatusOK, map[string]string{
		"dateFrom": state.Filters.DateFrom,
		"dateTo":   state.Filters.DateTo,
		"category": state.Filters.Category,
		"text":     state.Filters.Text,
	})
}

func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Sort string `json:"sort"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	mode := core.SortMode(strings.TrimSpace(body.Sort))
	if mode != core.SortByDate && mode != core.SortByAmount {
		writeError(w, http.StatusUnprocessableEntity, errors.New("sort must be 'date' or 'amount'"))
		return
	}

	if _, err := s.store.Dispatch(r.Context(), core.SetSort{Mode: mode}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sort": string(mode)})
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Currency string `json:"currency"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	currency, err := core.ParseCurrency(body.Currency)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	if _, err := s.store.Dispatch(r.Context(), core.SetCurrency{Code: currency}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"currency": string(currency)})
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, errors.New("category name is required"))
		return
	}

	state, err := s.store.Dispatch(r.Context(), core.AddCategory{Name: body.Name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": state.Categories})
}
