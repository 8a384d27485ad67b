package postgres

import (
	"context"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *historyRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, entry *domain.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *historyRepository) GetByUserID(ctx context.Context, userID uuid.UUID, filter repository.HistoryFilter) ([]*domain.HistoryEntry, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&domain.HistoryEntry{}).Where("user_id = ?", userID), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []*domain.HistoryEntry
	err := query.
		Order("timestamp DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *historyRepository) GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *historyRepository) applyFilter(query *gorm.DB, filter repository.HistoryFilter) *gorm.DB {
	if filter.AnalysisType != nil {
		query = query.Where("analysis_type = ?", *filter.AnalysisType)
	}
	if filter.Category != nil {
		query = query.Where("analysis -> 'product_info' ->> 'category' = ?", *filter.Category)
	}
	if filter.MinEcoScore != nil {
		query = query.Where("(analysis ->> 'eco_score')::int >= ?", *filter.MinEcoScore)
	}
	if filter.MaxEcoScore != nil {
		query = query.Where("(analysis ->> 'eco_score')::int <= ?", *filter.MaxEcoScore)
	}
	if filter.DateFrom != nil {
		query = query.Where("timestamp >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("timestamp <= ?", *filter.DateTo)
	}
	return query
}
