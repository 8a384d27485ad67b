package postgres

import (
	"context"

	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"gorm.io/gorm"
)

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *tokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, record *domain.TokenRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *tokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.TokenRecord, error) {
	var record domain.TokenRecord
	err := r.db.WithContext(ctx).First(&record, "token_hash = ?", tokenHash).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
