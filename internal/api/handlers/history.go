package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/api/middleware"
	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/repository"
	"github.com/ecotrace/ecotrace-backend/internal/service"
)

type HistoryHandler struct {
	historyService *service.HistoryService
}

func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

type CreateComparisonRequest struct {
	Products []domain.ProductAnalysis `json:"products"`
	Notes    string                   `json:"notes,omitempty"`
}

type CreateComparisonResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type HistoryResponse struct {
	Success     bool                      `json:"success"`
	Entries     []*domain.HistoryEntry    `json:"entries"`
	Comparisons []*domain.ComparisonEntry `json:"comparisons"`
	TotalCount  int64                     `json:"total_count"`
	HasMore     bool                      `json:"has_more"`
}

// List returns one page of the caller's history, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter, err := parseHistoryFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.historyService.GetHistory(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAnalysisType) || errors.Is(err, domain.ErrInvalidScoreRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [history.List] failed to get history: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	entries := page.Entries
	if entries == nil {
		entries = []*domain.HistoryEntry{}
	}
	comparisons := page.Comparisons
	if comparisons == nil {
		comparisons = []*domain.ComparisonEntry{}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		Success:     true,
		Entries:     entries,
		Comparisons: comparisons,
		TotalCount:  page.TotalCount,
		HasMore:     page.HasMore,
	})
}

// CreateComparison appends a comparison of two or more products to the
// caller's ledger.
func (h *HistoryHandler) CreateComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.historyService.SaveComparison(r.Context(), userID, req.Products, req.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrNotEnoughProducts) {
			http.Error(w, "Comparison requires at least 2 products", http.StatusBadRequest)
			return
		}
		log.Printf("ERROR [history.CreateComparison] failed to save comparison: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, CreateComparisonResponse{Success: true, ID: id.String()})
}

func parseHistoryFilter(r *http.Request) (repository.HistoryFilter, error) {
	var filter repository.HistoryFilter
	q := r.URL.Query()

	if v := q.Get("analysis_type"); v != "" {
		analysisType := domain.AnalysisType(v)
		filter.AnalysisType = &analysisType
	}
	if v := q.Get("category"); v != "" {
		filter.Category = &v
	}
	if v := q.Get("min_eco_score"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("min_eco_score must be an integer")
		}
		filter.MinEcoScore = &score
	}
	if v := q.Get("max_eco_score"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("max_eco_score must be an integer")
		}
		filter.MaxEcoScore = &score
	}
	if v := q.Get("date_from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("date_from must be RFC 3339")
		}
		filter.DateFrom = &from
	}
	if v := q.Get("date_to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("date_to must be RFC 3339")
		}
		filter.DateTo = &to
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	return filter, nil
}
