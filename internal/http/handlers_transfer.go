package http

import (
	"errors"
	"net/http"

	"wydatki/internal/core"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.store.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="wydatki.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	var merge bool
	switch mode {
	case "", "replace":
		merge = false
	case "merge":
		merge = true
	default:
		writeError(w, http.StatusBadRequest, errors.New("mode must be 'replace' or 'merge'"))
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	state, err := s.store.Import(r.Context(), body, merge)
	if err != nil {
		if errors.Is(err, core.ErrMalformedDocument) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.InfoContext(r.Context(), "State imported",
		"merge", merge,
		"expenses", len(state.Expenses),
		"categories", len(state.Categories))
	writeJSON(w, http.StatusOK, map[string]int{
		"expenses":   len(state.Expenses),
		"categories": len(state.Categories),
	})
}

func (s *Server) handleRefreshRates(w http.ResponseWriter, r *http.Request) {
	if s.rates == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("rates client not configured"))
		return
	}

	result, err := s.rates.Fetch(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Rates refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	state, err := s.store.Dispatch(r.Context(), core.SetRates{Rates: result.Rates, Label: result.Label})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fxPLN":   state.Rates,
		"fxLabel": state.RatesLabel,
	})
}
