package handler

import (
	"net/http"

	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/model"
	"github.com/yusunghyun/Kkondeokji-Capstone-v0-sub000/internal/service"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	userRepo service.UserRepository
}

// NewUserHandler creates a new user handler
func NewUserHandler(userRepo service.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// Create handles POST /v1/users - register a profile
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user := &model.User{
		Name:       req.Name,
		Age:        req.Age,
		Occupation: req.Occupation,
	}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		WriteError(w, model.NewInternalError("failed to create user"))
		return
	}

	WriteData(w, http.StatusCreated, user)
}

// Get handles GET /v1/users/{userId} - fetch a profile
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		WriteError(w, model.NewInternalError("failed to get user"))
		return
	}
	if user == nil {
		WriteError(w, model.NewNotFoundError("user"))
		return
	}

	WriteData(w, http.StatusOK, user)
}
