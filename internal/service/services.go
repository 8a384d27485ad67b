package service

import (
	"github.com/ecotrace/ecotrace-backend/internal/config"
	"github.com/ecotrace/ecotrace-backend/internal/repository"
)

type Services struct {
	Auth     *AuthService
	History  *HistoryService
	Journey  *JourneyService
	Analyzer Analyzer
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:     NewAuthService(repos.User, repos.Token, cfg),
		History:  NewHistoryService(repos.History, repos.Comparison),
		Journey:  NewJourneyService(repos.History, repos.Comparison),
		Analyzer: NewAnalyzerClient(cfg),
	}
}
