package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID          string `json:"id"`
	IsAnonymous bool   `json:"is_anonymous"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Error   string `json:"error,omitempty"`
}

type ValidateResponse struct {
	Valid bool  `json:"valid"`
	User  *User `json:"user,omitempty"`
}

type ProductInfo struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type ProductAnalysis struct {
	ProductInfo     ProductInfo     `json:"product_info"`
	EcoScore        int             `json:"eco_score"`
	ConfidenceLevel float64         `json:"confidence_level,omitempty"`
	Raw             json.RawMessage `json:"-"`
}

type AnalyzeResponse struct {
	Success          bool             `json:"success"`
	Analysis         *json.RawMessage `json:"analysis"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
}

type HistoryResponse struct {
	Success    bool  `json:"success"`
	TotalCount int64 `json:"total_count"`
	HasMore    bool  `json:"has_more"`
}

type JourneyStats struct {
	TotalAnalyses      int      `json:"total_analyses"`
	TotalComparisons   int      `json:"total_comparisons"`
	AverageEcoScore    float64  `json:"average_eco_score"`
	BestEcoScore       int      `json:"best_eco_score"`
	WorstEcoScore      int      `json:"worst_eco_score"`
	FavoriteCategories []string `json:"favorite_categories"`
	ImprovementTrend   float64  `json:"improvement_trend"`
	DaysActive         int      `json:"days_active"`
}

type Journey struct {
	Stats      JourneyStats `json:"stats"`
	Milestones []string     `json:"milestones"`
}

type JourneyResponse struct {
	Success  bool     `json:"success"`
	Journey  *Journey `json:"journey"`
	Insights []string `json:"insights"`
}

// AnonymousToken creates a fresh anonymous identity
func (c *APIClient) AnonymousToken() (string, error) {
	resp, err := c.post("/auth/token", nil, "")
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Token, nil
}

// RegisterUser creates a new registered account with a unique email
func (c *APIClient) RegisterUser(baseName string) (*User, string, error) {
	email := fmt.Sprintf("%s_%d@demo.ecotrace.dev", baseName, time.Now().UnixNano()%100000)

	body := map[string]string{
		"email":    email,
		"password": "testpassword123",
		"name":     baseName,
	}

	resp, err := c.post("/auth/register", body, "")
	if err != nil {
		return nil, "", fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("register failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.User, result.Token, nil
}

// ValidateToken checks the token against the backend
func (c *APIClient) ValidateToken(token string) (*ValidateResponse, error) {
	resp, err := c.get("/auth/validate", token)
	if err != nil {
		return nil, fmt.Errorf("validate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("validate failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result ValidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// AnalyzeProduct runs one product analysis; the backend saves it to
// history automatically
func (c *APIClient) AnalyzeProduct(token, query string, isComparison bool) (*ProductAnalysis, error) {
	body := map[string]interface{}{
		"query":         query,
		"is_comparison": isComparison,
	}

	resp, err := c.post("/analyze/product", body, token)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analyze failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Analysis == nil {
		return nil, fmt.Errorf("analyze returned no analysis")
	}

	var analysis ProductAnalysis
	if err := json.Unmarshal(*result.Analysis, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	analysis.Raw = *result.Analysis
	return &analysis, nil
}

// CreateComparison saves a comparison of previously analyzed products
func (c *APIClient) CreateComparison(token string, products []json.RawMessage, notes string) error {
	body := map[string]interface{}{
		"products": products,
		"notes":    notes,
	}

	resp, err := c.post("/history/comparison", body, token)
	if err != nil {
		return fmt.Errorf("comparison request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("comparison failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// GetHistory fetches the first page of the user's history
func (c *APIClient) GetHistory(token string) (*HistoryResponse, error) {
	resp, err := c.get("/history/", token)
	if err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("history failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result HistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// GetJourney fetches the derived journey view
func (c *APIClient) GetJourney(token string) (*JourneyResponse, error) {
	resp, err := c.get("/journey", token)
	if err != nil {
		return nil, fmt.Errorf("journey request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("journey failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result JourneyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// HTTP helpers

func (c *APIClient) get(path, token string) (*http.Response, error) {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("X-User-Token", token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *APIClient) post(path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("X-User-Token", token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
