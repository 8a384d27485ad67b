package domain

import "errors"

// Input validation errors
var (
	ErrNotEnoughProducts   = errors.New("comparison requires at least 2 products")
	ErrInvalidAnalysisType = errors.New("invalid analysis type")
	ErrInvalidScoreRange   = errors.New("eco score bounds must be between 1 and 100")
)
