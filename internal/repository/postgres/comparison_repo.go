package postgres

import (
	"context"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type comparisonRepository struct {
	db *gorm.DB
}

func NewComparisonRepository(db *gorm.DB) *comparisonRepository {
	return &comparisonRepository{db: db}
}

func (r *comparisonRepository) Create(ctx context.Context, entry *domain.ComparisonEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *comparisonRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ComparisonEntry, error) {
	var entries []*domain.ComparisonEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *comparisonRepository) GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.ComparisonEntry, error) {
	var entries []*domain.ComparisonEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
