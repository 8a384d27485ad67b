package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/config"
	"github.com/ecotrace/ecotrace-backend/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Analyzer is the boundary to the external analysis engine. Scoring,
// barcode resolution and page scraping all happen on the other side of
// this interface.
type Analyzer interface {
	AnalyzeProduct(ctx context.Context, query string) (*domain.ProductAnalysis, error)
	AnalyzeBarcode(ctx context.Context, barcode string) (*domain.ProductAnalysis, error)
	AnalyzeURL(ctx context.Context, url string) (*domain.ProductAnalysis, error)
}

type AnalyzerClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAnalyzerClient(cfg *config.Config) *AnalyzerClient {
	return &AnalyzerClient{
		baseURL: cfg.AnalyzerURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.AnalyzerTimeoutSeconds) * time.Second,
		},
	}
}

type analyzeProductRequest struct {
	Query     string `json:"query"`
	QueryType string `json:"query_type"`
}

type analyzeBarcodeRequest struct {
	Barcode string `json:"barcode"`
}

type analyzeResponse struct {
	Success  bool                    `json:"success"`
	Analysis *domain.ProductAnalysis `json:"analysis"`
}

func (c *AnalyzerClient) AnalyzeProduct(ctx context.Context, query string) (*domain.ProductAnalysis, error) {
	return c.post(ctx, "/analyze/product", analyzeProductRequest{Query: query, QueryType: "name"})
}

func (c *AnalyzerClient) AnalyzeURL(ctx context.Context, url string) (*domain.ProductAnalysis, error) {
	return c.post(ctx, "/analyze/product", analyzeProductRequest{Query: url, QueryType: "url"})
}

func (c *AnalyzerClient) AnalyzeBarcode(ctx context.Context, barcode string) (*domain.ProductAnalysis, error) {
	return c.post(ctx, "/analyze/barcode", analyzeBarcodeRequest{Barcode: barcode})
}

func (c *AnalyzerClient) post(ctx context.Context, path string, payload interface{}) (*domain.ProductAnalysis, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode analyzer response: %w", err)
	}
	if decoded.Analysis == nil {
		return nil, fmt.Errorf("analyzer returned no analysis")
	}

	return decoded.Analysis, nil
}
