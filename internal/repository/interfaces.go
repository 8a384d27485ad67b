package repository

import (
	"context"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	TouchLastActive(ctx context.Context, id uuid.UUID) error
}

type TokenRepository interface {
	Create(ctx context.Context, record *domain.TokenRecord) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.TokenRecord, error)
}

// HistoryFilter narrows a history query. All fields are optional and
// composable; score bounds are inclusive.
type HistoryFilter struct {
	AnalysisType *domain.AnalysisType
	Category     *string
	MinEcoScore  *int
	MaxEcoScore  *int
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.HistoryEntry) error
	// GetByUserID returns one page of the user's entries, newest first,
	// along with the total count matching the filter.
	GetByUserID(ctx context.Context, userID uuid.UUID, filter HistoryFilter) ([]*domain.HistoryEntry, int64, error)
	GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.HistoryEntry, error)
}

type ComparisonRepository interface {
	Create(ctx context.Context, entry *domain.ComparisonEntry) error
	GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ComparisonEntry, error)
	GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.ComparisonEntry, error)
}

type Repositories struct {
	User       UserRepository
	Token      TokenRepository
	History    HistoryRepository
	Comparison ComparisonRepository
}
