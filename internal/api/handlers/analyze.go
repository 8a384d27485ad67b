package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/api/middleware"
	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/service"
	"github.com/google/uuid"
)

type AnalyzeHandler struct {
	analyzer       service.Analyzer
	historyService *service.HistoryService
}

func NewAnalyzeHandler(analyzer service.Analyzer, historyService *service.HistoryService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:       analyzer,
		historyService: historyService,
	}
}

type AnalyzeProductRequest struct {
	Query string `json:"query"`
	// "name" (default) or "url"
	QueryType    string `json:"query_type,omitempty"`
	IsComparison bool   `json:"is_comparison,omitempty"`
}

type AnalyzeBarcodeRequest struct {
	Barcode      string `json:"barcode"`
	IsComparison bool   `json:"is_comparison,omitempty"`
}

type AnalyzeResponse struct {
	Success          bool                    `json:"success"`
	Analysis         *domain.ProductAnalysis `json:"analysis"`
	Timestamp        time.Time               `json:"timestamp"`
	ProcessingTimeMs int64                   `json:"processing_time_ms"`
}

// Product analyzes a product by name or URL. The resulting entry is
// appended to the caller's history before the analysis is returned;
// saving is not a separate client action.
func (h *AnalyzeHandler) Product(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AnalyzeProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "Query is required", http.StatusBadRequest)
		return
	}

	started := time.Now()

	var (
		analysis     *domain.ProductAnalysis
		analysisType domain.AnalysisType
		err          error
	)
	if req.QueryType == "url" {
		analysisType = domain.AnalysisTypeURLAnalysis
		analysis, err = h.analyzer.AnalyzeURL(r.Context(), req.Query)
	} else {
		analysisType = domain.AnalysisTypeProductSearch
		analysis, err = h.analyzer.AnalyzeProduct(r.Context(), req.Query)
	}
	if err != nil {
		log.Printf("ERROR [analyze.Product] analysis failed: %v", err)
		http.Error(w, "Analysis failed", http.StatusInternalServerError)
		return
	}

	h.saveAndRespond(w, r, userID, req.Query, analysisType, req.IsComparison, analysis, started)
}

// Barcode analyzes a product by barcode.
func (h *AnalyzeHandler) Barcode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AnalyzeBarcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Barcode == "" {
		http.Error(w, "Barcode is required", http.StatusBadRequest)
		return
	}

	started := time.Now()

	analysis, err := h.analyzer.AnalyzeBarcode(r.Context(), req.Barcode)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			http.Error(w, "Product not found for this barcode", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [analyze.Barcode] analysis failed: %v", err)
		http.Error(w, "Analysis failed", http.StatusInternalServerError)
		return
	}

	h.saveAndRespond(w, r, userID, req.Barcode, domain.AnalysisTypeBarcodeScan, req.IsComparison, analysis, started)
}

func (h *AnalyzeHandler) saveAndRespond(w http.ResponseWriter, r *http.Request, userID uuid.UUID, query string, analysisType domain.AnalysisType, isComparison bool, analysis *domain.ProductAnalysis, started time.Time) {
	_, err := h.historyService.SaveAnalysis(r.Context(), userID, service.SaveAnalysisInput{
		AnalysisType: analysisType,
		Query:        query,
		Analysis:     analysis,
		IsComparison: isComparison,
	})
	if err != nil {
		log.Printf("ERROR [analyze.saveAndRespond] failed to save history entry: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Success:          true,
		Analysis:         analysis,
		Timestamp:        time.Now(),
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	})
}
