package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	defaultHistoryLimit  = 50
	maxHistoryLimit      = 100
	recentComparisonsCap = 10
)

type HistoryService struct {
	historyRepo    repository.HistoryRepository
	comparisonRepo repository.ComparisonRepository
}

func NewHistoryService(historyRepo repository.HistoryRepository, comparisonRepo repository.ComparisonRepository) *HistoryService {
	return &HistoryService{
		historyRepo:    historyRepo,
		comparisonRepo: comparisonRepo,
	}
}

type SaveAnalysisInput struct {
	AnalysisType domain.AnalysisType
	Query        string
	Analysis     *domain.ProductAnalysis
	IsComparison bool
}

type HistoryPage struct {
	Entries     []*domain.HistoryEntry
	Comparisons []*domain.ComparisonEntry
	TotalCount  int64
	HasMore     bool
}

// SaveAnalysis appends one analysis to the user's ledger and returns
// the new entry's id.
func (s *HistoryService) SaveAnalysis(ctx context.Context, userID uuid.UUID, input SaveAnalysisInput) (uuid.UUID, error) {
	if !input.AnalysisType.IsValid() {
		return uuid.Nil, domain.ErrInvalidAnalysisType
	}

	payload, err := json.Marshal(input.Analysis)
	if err != nil {
		return uuid.Nil, err
	}

	entry := &domain.HistoryEntry{
		ID:                   uuid.New(),
		UserID:               userID,
		Timestamp:            time.Now(),
		AnalysisType:         input.AnalysisType,
		Query:                input.Query,
		Analysis:             payload,
		IsComparisonAnalysis: input.IsComparison,
	}

	if err := s.historyRepo.Create(ctx, entry); err != nil {
		return uuid.Nil, err
	}
	return entry.ID, nil
}

// SaveComparison appends a comparison of two or more products.
func (s *HistoryService) SaveComparison(ctx context.Context, userID uuid.UUID, products []domain.ProductAnalysis, notes string) (uuid.UUID, error) {
	if len(products) < 2 {
		return uuid.Nil, domain.ErrNotEnoughProducts
	}

	payload, err := json.Marshal(products)
	if err != nil {
		return uuid.Nil, err
	}

	entry := &domain.ComparisonEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Timestamp: time.Now(),
		Products:  payload,
		Notes:     notes,
	}

	if err := s.comparisonRepo.Create(ctx, entry); err != nil {
		return uuid.Nil, err
	}
	return entry.ID, nil
}

// GetHistory returns one page of the user's entries, newest first,
// plus their most recent comparisons. Every read is scoped to userID.
func (s *HistoryService) GetHistory(ctx context.Context, userID uuid.UUID, filter repository.HistoryFilter) (*HistoryPage, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	entries, total, err := s.historyRepo.GetByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	comparisons, err := s.comparisonRepo.GetByUserID(ctx, userID, recentComparisonsCap)
	if err != nil {
		return nil, err
	}

	return &HistoryPage{
		Entries:     entries,
		Comparisons: comparisons,
		TotalCount:  total,
		HasMore:     int64(filter.Offset+len(entries)) < total,
	}, nil
}

func validateFilter(filter repository.HistoryFilter) error {
	if filter.AnalysisType != nil && !filter.AnalysisType.IsValid() {
		return domain.ErrInvalidAnalysisType
	}
	if filter.MinEcoScore != nil && (*filter.MinEcoScore < 1 || *filter.MinEcoScore > 100) {
		return domain.ErrInvalidScoreRange
	}
	if filter.MaxEcoScore != nil && (*filter.MaxEcoScore < 1 || *filter.MaxEcoScore > 100) {
		return domain.ErrInvalidScoreRange
	}
	return nil
}
