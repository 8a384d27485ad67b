package handlers

import (
	"log"
	"net/http"

	"github.com/ecotrace/ecotrace-backend/internal/api/middleware"
	"github.com/ecotrace/ecotrace-backend/internal/service"
)

type JourneyHandler struct {
	journeyService *service.JourneyService
}

func NewJourneyHandler(journeyService *service.JourneyService) *JourneyHandler {
	return &JourneyHandler{journeyService: journeyService}
}

type JourneyResponse struct {
	Success  bool             `json:"success"`
	Journey  *service.Journey `json:"journey"`
	Insights []string         `json:"insights"`
}

// Get returns the caller's derived journey: stats, category breakdown,
// timeline, milestones and insights, recomputed on every call.
func (h *JourneyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.journeyService.GetJourney(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [journey.Get] failed to build journey: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, JourneyResponse{
		Success:  true,
		Journey:  result.Journey,
		Insights: result.Insights,
	})
}
