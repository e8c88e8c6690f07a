package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/logging"
)

type userService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateProfilePhoto(ctx context.Context, userID uuid.UUID, photoPath string) (*domain.Profile, error)
}

type UserHandler struct {
	users userService
}

func NewUserHandler(users userService) *UserHandler {
	return &UserHandler{users: users}
}

type profileDTO struct {
	UserID    uuid.UUID `json:"user_id"`
	PhotoPath string    `json:"photo_path"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	user, err := h.users.GetUser(r.Context(), ownerID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to get user", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	p, err := h.users.GetProfile(r.Context(), ownerID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to get profile", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, profileDTO{UserID: p.UserID, PhotoPath: p.PhotoPath, UpdatedAt: p.UpdatedAt})
}

type updatePhotoRequest struct {
	PhotoPath string `json:"photo_path"`
}

func (h *UserHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.PhotoPath == "" {
		RespondValidationError(w, []FieldError{{Field: "photo_path", Message: "required"}})
		return
	}

	p, err := h.users.UpdateProfilePhoto(r.Context(), ownerID, req.PhotoPath)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update profile photo", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, profileDTO{UserID: p.UserID, PhotoPath: p.PhotoPath, UpdatedAt: p.UpdatedAt})
}
