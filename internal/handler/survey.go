package handler

import (
	"errors"
	"net/http"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/service"
)

// SurveyHandler handles survey endpoints
type SurveyHandler struct {
	surveyService    *service.SurveyService
	surveyGenService *service.SurveyGenService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveyService *service.SurveyService, surveyGenService *service.SurveyGenService) *SurveyHandler {
	return &SurveyHandler{
		surveyService:    surveyService,
		surveyGenService: surveyGenService,
	}
}

// Generate handles POST /v1/surveys/generate - create a survey template
func (h *SurveyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateSurveyRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	out, err := h.surveyGenService.GenerateSurvey(r.Context(), req)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to generate survey"))
		return
	}

	WriteData(w, http.StatusCreated, out)
}

// ListTemplates handles GET /v1/surveys - list survey templates
func (h *SurveyHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.surveyService.ListTemplates(r.Context())
	if err != nil {
		WriteError(w, model.NewInternalError("failed to list templates"))
		return
	}

	WriteData(w, http.StatusOK, templates)
}

// GetTemplate handles GET /v1/surveys/{templateId} - template with questions
func (h *SurveyHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := r.PathValue("templateId")
	if templateID == "" {
		WriteError(w, model.NewBadRequestError("template ID required"))
		return
	}

	out, err := h.surveyService.GetTemplate(r.Context(), templateID)
	if err != nil {
		h.handleSurveyError(w, err)
		return
	}

	WriteData(w, http.StatusOK, out)
}

// Start handles POST /v1/surveys/{templateId}/start - begin a user survey
func (h *SurveyHandler) Start(w http.ResponseWriter, r *http.Request) {
	templateID := r.PathValue("templateId")
	if templateID == "" {
		WriteError(w, model.NewBadRequestError("template ID required"))
		return
	}

	var req model.StartSurveyRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.UserID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "user_id", Message: "user id is required"},
		}))
		return
	}

	us, err := h.surveyService.StartSurvey(r.Context(), req.UserID, templateID)
	if err != nil {
		h.handleSurveyError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, us)
}

// SubmitResponse handles POST /v1/user-surveys/{userSurveyId}/responses
func (h *SurveyHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	userSurveyID := r.PathValue("userSurveyId")
	if userSurveyID == "" {
		WriteError(w, model.NewBadRequestError("user survey ID required"))
		return
	}

	var req model.SubmitResponseRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if req.QuestionID == "" || req.OptionID == "" {
		WriteError(w, model.NewValidationError([]model.FieldError{
			{Field: "question_id", Message: "question id and option id are required"},
		}))
		return
	}

	resp, err := h.surveyService.SubmitResponse(r.Context(), userSurveyID, req.QuestionID, req.OptionID)
	if err != nil {
		h.handleSurveyError(w, err)
		return
	}

	WriteData(w, http.StatusCreated, resp)
}

// Complete handles POST /v1/user-surveys/{userSurveyId}/complete
func (h *SurveyHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userSurveyID := r.PathValue("userSurveyId")
	if userSurveyID == "" {
		WriteError(w, model.NewBadRequestError("user survey ID required"))
		return
	}

	us, err := h.surveyService.CompleteSurvey(r.Context(), userSurveyID)
	if err != nil {
		h.handleSurveyError(w, err)
		return
	}

	WriteData(w, http.StatusOK, us)
}

// handleSurveyError maps service errors to problem responses
func (h *SurveyHandler) handleSurveyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		WriteError(w, model.NewNotFoundError("survey template"))
	case errors.Is(err, service.ErrUserSurveyNotFound):
		WriteError(w, model.NewNotFoundError("user survey"))
	case errors.Is(err, service.ErrSurveyAlreadyDone):
		WriteError(w, model.NewConflictError("survey already completed"))
	default:
		WriteError(w, model.NewInternalError("survey operation failed"))
	}
}
