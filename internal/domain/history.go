package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// HistoryEntry is one saved analysis. Entries are append-only: written
// once on a successful analysis, never updated or deleted.
type HistoryEntry struct {
	ID                   uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID               uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	Timestamp            time.Time      `json:"timestamp" gorm:"index;not null"`
	AnalysisType         AnalysisType   `json:"analysis_type" gorm:"not null"`
	Query                string         `json:"query" gorm:"not null"`
	Analysis             datatypes.JSON `json:"analysis" gorm:"type:jsonb;not null"`
	IsComparisonAnalysis bool           `json:"is_comparison_analysis" gorm:"not null;default:false"`
}

// DecodeAnalysis unmarshals the stored analysis payload.
func (e *HistoryEntry) DecodeAnalysis() (*ProductAnalysis, error) {
	var analysis ProductAnalysis
	if err := json.Unmarshal(e.Analysis, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// ComparisonEntry records a side-by-side comparison of two or more
// products. Append-only like HistoryEntry.
type ComparisonEntry struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;index;not null"`
	Timestamp time.Time      `json:"timestamp" gorm:"index;not null"`
	Products  datatypes.JSON `json:"products" gorm:"type:jsonb;not null"`
	Notes     string         `json:"notes,omitempty" gorm:"type:text"`
}

// DecodeProducts unmarshals the stored product payloads.
func (c *ComparisonEntry) DecodeProducts() ([]ProductAnalysis, error) {
	var products []ProductAnalysis
	if err := json.Unmarshal(c.Products, &products); err != nil {
		return nil, err
	}
	return products, nil
}
