package handler

import (
	"errors"
	"net/http"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/service"
)

// MatchHandler handles match endpoints
type MatchHandler struct {
	matchService *service.MatchService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// Calculate handles POST /v1/matches - calculate (or return) a match
func (h *MatchHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req model.CalculateMatchRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.User1ID == "" || req.User2ID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "user1_id", Message: "both user ids are required"},
		}))
		return
	}

	result, err := h.matchService.CalculateMatch(r.Context(), req.User1ID, req.User2ID)
	if err != nil {
		h.handleMatchError(w, err)
		return
	}

	WriteData(w, http.StatusOK, result)
}

// Get handles GET /v1/matches/{matchId} - get a match
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchId")
	if matchID == "" {
		WriteError(w, model.NewBadRequestError("match ID required"))
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		h.handleMatchError(w, err)
		return
	}

	WriteData(w, http.StatusOK, match)
}

// ListForUser handles GET /v1/users/{userId}/matches - a user's matches
func (h *MatchHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	matches, err := h.matchService.GetUserMatches(r.Context(), userID)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to list matches"))
		return
	}

	WriteData(w, http.StatusOK, matches)
}

// Recalculate handles POST /v1/matches/{matchId}/recalculate
func (h *MatchHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchId")
	if matchID == "" {
		WriteError(w, model.NewBadRequestError("match ID required"))
		return
	}

	diff, err := h.matchService.RecalculateMatch(r.Context(), matchID)
	if err != nil {
		h.handleMatchError(w, err)
		return
	}

	WriteData(w, http.StatusOK, diff)
}

// RegenerateInsights handles POST /v1/matches/{matchId}/insights/regenerate
func (h *MatchHandler) RegenerateInsights(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("matchId")
	if matchID == "" {
		WriteError(w, model.NewBadRequestError("match ID required"))
		return
	}

	insights, err := h.matchService.RegenerateInsights(r.Context(), matchID)
	if err != nil {
		h.handleMatchError(w, err)
		return
	}

	WriteData(w, http.StatusOK, map[string]string{"ai_insights": insights})
}

// handleMatchError maps service errors to problem responses
func (h *MatchHandler) handleMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMatchNotFound):
		WriteError(w, model.NewNotFoundError("match"))
	case errors.Is(err, service.ErrSelfMatch):
		WriteError(w, model.NewBadRequestError("cannot match a user with themselves"))
	case errors.Is(err, service.ErrSurveyNotCompleted):
		WriteError(w, model.NewPreconditionError("both users must complete a survey before matching"))
	case errors.Is(err, service.ErrTemplateMismatch):
		WriteError(w, model.NewConflictError("users completed different survey templates"))
	default:
		WriteError(w, model.NewInternalError("match calculation failed"))
	}
}
