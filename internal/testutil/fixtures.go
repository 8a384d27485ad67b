package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StubAnalyzer is a canned replacement for the external analysis
// engine. Unknown barcodes can be simulated via NotFoundBarcodes.
type StubAnalyzer struct {
	Result           domain.ProductAnalysis
	NotFoundBarcodes map[string]bool
	Calls            int
}

func NewStubAnalyzer() *StubAnalyzer {
	return &StubAnalyzer{
		Result:           Analysis("Stub Product", "Electronics", 75),
		NotFoundBarcodes: map[string]bool{},
	}
}

func (s *StubAnalyzer) AnalyzeProduct(ctx context.Context, query string) (*domain.ProductAnalysis, error) {
	s.Calls++
	result := s.Result
	return &result, nil
}

func (s *StubAnalyzer) AnalyzeURL(ctx context.Context, url string) (*domain.ProductAnalysis, error) {
	s.Calls++
	result := s.Result
	return &result, nil
}

func (s *StubAnalyzer) AnalyzeBarcode(ctx context.Context, barcode string) (*domain.ProductAnalysis, error) {
	s.Calls++
	if s.NotFoundBarcodes[barcode] {
		return nil, service.ErrProductNotFound
	}
	result := s.Result
	return &result, nil
}

// Analysis builds a minimal valid analysis payload
func Analysis(name, category string, score int) domain.ProductAnalysis {
	return domain.ProductAnalysis{
		ProductInfo: domain.ProductInfo{
			Name:     name,
			Category: category,
		},
		ImpactFactors: []domain.ImpactFactor{
			{Name: "materials", Score: score, Weight: 0.5},
			{Name: "packaging", Score: score, Weight: 0.5},
		},
		EcoScore:        score,
		ConfidenceLevel: 0.8,
	}
}

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email     string
	password  string
	name      string
	anonymous bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("test_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// Anonymous makes the user an anonymous identity without credentials
func (b *UserBuilder) Anonymous() *UserBuilder {
	b.anonymous = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	now := time.Now()
	user := &domain.User{
		ID:          uuid.New(),
		IsAnonymous: b.anonymous,
		CreatedAt:   now,
		LastActive:  now,
	}

	if !b.anonymous {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		passwordHash := string(hashedPassword)
		user.Email = &b.email
		user.PasswordHash = &passwordHash
		if b.name != "" {
			user.Name = &b.name
		}
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// HistoryEntryBuilder creates history entries directly in the database
type HistoryEntryBuilder struct {
	userID       uuid.UUID
	at           time.Time
	analysisType domain.AnalysisType
	query        string
	analysis     domain.ProductAnalysis
	isComparison bool
}

func NewHistoryEntryBuilder(userID uuid.UUID) *HistoryEntryBuilder {
	return &HistoryEntryBuilder{
		userID:       userID,
		at:           time.Now(),
		analysisType: domain.AnalysisTypeProductSearch,
		query:        "test query",
		analysis:     Analysis("Test Product", "Electronics", 50),
	}
}

func (b *HistoryEntryBuilder) At(at time.Time) *HistoryEntryBuilder {
	b.at = at
	return b
}

func (b *HistoryEntryBuilder) WithType(t domain.AnalysisType) *HistoryEntryBuilder {
	b.analysisType = t
	return b
}

func (b *HistoryEntryBuilder) WithQuery(query string) *HistoryEntryBuilder {
	b.query = query
	return b
}

func (b *HistoryEntryBuilder) WithAnalysis(analysis domain.ProductAnalysis) *HistoryEntryBuilder {
	b.analysis = analysis
	return b
}

func (b *HistoryEntryBuilder) ForComparison() *HistoryEntryBuilder {
	b.isComparison = true
	return b
}

func (b *HistoryEntryBuilder) Build(t *testing.T, db *gorm.DB) *domain.HistoryEntry {
	t.Helper()

	payload, err := json.Marshal(b.analysis)
	if err != nil {
		t.Fatalf("failed to marshal analysis: %v", err)
	}

	entry := &domain.HistoryEntry{
		ID:                   uuid.New(),
		UserID:               b.userID,
		Timestamp:            b.at,
		AnalysisType:         b.analysisType,
		Query:                b.query,
		Analysis:             payload,
		IsComparisonAnalysis: b.isComparison,
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create history entry: %v", err)
	}
	return entry
}

// Entry builds an in-memory history entry without touching a database,
// for tests of the pure analytics functions.
func Entry(t *testing.T, userID uuid.UUID, at time.Time, analysis domain.ProductAnalysis, analysisType domain.AnalysisType, isComparison bool) *domain.HistoryEntry {
	t.Helper()

	payload, err := json.Marshal(analysis)
	if err != nil {
		t.Fatalf("failed to marshal analysis: %v", err)
	}
	return &domain.HistoryEntry{
		ID:                   uuid.New(),
		UserID:               userID,
		Timestamp:            at,
		AnalysisType:         analysisType,
		Query:                analysis.ProductInfo.Name,
		Analysis:             payload,
		IsComparisonAnalysis: isComparison,
	}
}

// Comparison builds an in-memory comparison entry.
func Comparison(t *testing.T, userID uuid.UUID, at time.Time, products ...domain.ProductAnalysis) *domain.ComparisonEntry {
	t.Helper()

	payload, err := json.Marshal(products)
	if err != nil {
		t.Fatalf("failed to marshal products: %v", err)
	}
	return &domain.ComparisonEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Timestamp: at,
		Products:  payload,
	}
}
