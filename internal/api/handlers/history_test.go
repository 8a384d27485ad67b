package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ecotrace/ecotrace-backend/internal/api/handlers"
	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeAndHistoryFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := anonymousToken(t, ts)

	t.Run("product analysis is auto-saved", func(t *testing.T) {
		ts.Analyzer.Result = testutil.Analysis("Bamboo Toothbrush", "Personal Care", 85)

		resp := doRequest(t, http.MethodPost, ts.APIURL("/analyze/product"), token, handlers.AnalyzeProductRequest{
			Query: "bamboo toothbrush",
		})
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var analyzeResp handlers.AnalyzeResponse
		testutil.AssertJSONResponse(t, resp, &analyzeResp)
		assert.True(t, analyzeResp.Success)
		require.NotNil(t, analyzeResp.Analysis)
		assert.Equal(t, 85, analyzeResp.Analysis.EcoScore)
		assert.False(t, analyzeResp.Timestamp.IsZero())

		historyResp := doRequest(t, http.MethodGet, ts.APIURL("/history/"), token, nil)
		testutil.AssertStatusCode(t, historyResp, http.StatusOK)

		var history handlers.HistoryResponse
		testutil.AssertJSONResponse(t, historyResp, &history)
		require.Len(t, history.Entries, 1)
		assert.Equal(t, domain.AnalysisTypeProductSearch, history.Entries[0].AnalysisType)
		assert.Equal(t, "bamboo toothbrush", history.Entries[0].Query)
	})

	t.Run("unknown barcode", func(t *testing.T) {
		ts.Analyzer.NotFoundBarcodes["0000000000000"] = true

		resp := doRequest(t, http.MethodPost, ts.APIURL("/analyze/barcode"), token, handlers.AnalyzeBarcodeRequest{
			Barcode: "0000000000000",
		})
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Product not found")
	})

	t.Run("comparison needs two products", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, ts.APIURL("/history/comparison"), token, handlers.CreateComparisonRequest{
			Products: []domain.ProductAnalysis{testutil.Analysis("Solo", "Food", 50)},
		})
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "at least 2 products")
	})

	t.Run("comparison round trip", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, ts.APIURL("/history/comparison"), token, handlers.CreateComparisonRequest{
			Products: []domain.ProductAnalysis{
				testutil.Analysis("Oat Milk", "Food", 80),
				testutil.Analysis("Dairy Milk", "Food", 45),
			},
			Notes: "weekly shop",
		})
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var created handlers.CreateComparisonResponse
		testutil.AssertJSONResponse(t, resp, &created)
		assert.True(t, created.Success)
		assert.NotEmpty(t, created.ID)

		historyResp := doRequest(t, http.MethodGet, ts.APIURL("/history/"), token, nil)
		var history handlers.HistoryResponse
		testutil.AssertJSONResponse(t, historyResp, &history)
		require.Len(t, history.Comparisons, 1)
		assert.Equal(t, "weekly shop", history.Comparisons[0].Notes)
	})

	t.Run("history filters are validated", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, ts.APIURL("/history/?min_eco_score=abc"), token, nil)
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "min_eco_score must be an integer")

		resp = doRequest(t, http.MethodGet, ts.APIURL("/history/?analysis_type=telepathy"), token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("history is scoped to the caller", func(t *testing.T) {
		otherToken := anonymousToken(t, ts)

		resp := doRequest(t, http.MethodGet, ts.APIURL("/history/"), otherToken, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var history handlers.HistoryResponse
		testutil.AssertJSONResponse(t, resp, &history)
		assert.Empty(t, history.Entries)
		assert.Empty(t, history.Comparisons)
		assert.Equal(t, int64(0), history.TotalCount)
	})

	t.Run("journey reflects saved activity", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, ts.APIURL("/journey"), token, nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var journeyResp handlers.JourneyResponse
		testutil.AssertJSONResponse(t, resp, &journeyResp)
		assert.True(t, journeyResp.Success)
		require.NotNil(t, journeyResp.Journey)
		assert.Equal(t, 1, journeyResp.Journey.Stats.TotalAnalyses)
		assert.Equal(t, 1, journeyResp.Journey.Stats.TotalComparisons)
		assert.NotEmpty(t, journeyResp.Journey.Milestones)
		assert.NotEmpty(t, journeyResp.Insights)
	})
}
