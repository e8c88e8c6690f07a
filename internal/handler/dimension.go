package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/logging"
)

type dimensionService interface {
	CreateDimension(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, role domain.DimensionRole, label string) (*domain.Dimension, error)
	ListDimensions(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, role domain.DimensionRole) ([]domain.Dimension, error)
	RenameDimension(ctx context.Context, ownerID, id uuid.UUID, label string) (*domain.Dimension, error)
	DeleteDimension(ctx context.Context, ownerID, id uuid.UUID) error
}

type DimensionHandler struct {
	dimensions dimensionService
}

func NewDimensionHandler(dimensions dimensionService) *DimensionHandler {
	return &DimensionHandler{dimensions: dimensions}
}

type dimensionDTO struct {
	ID    uuid.UUID `json:"id"`
	Kind  string    `json:"kind"`
	Role  string    `json:"role"`
	Label string    `json:"label"`
}

func toDimensionDTO(d *domain.Dimension) dimensionDTO {
	return dimensionDTO{
		ID:    d.ID,
		Kind:  string(d.Kind),
		Role:  string(d.Role),
		Label: d.Label,
	}
}

type dimensionRequest struct {
	Label string `json:"label"`
}

func (h *DimensionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	kind, appErr := kindFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	role := domain.DimensionRole(r.PathValue("role"))

	var req dimensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Label == "" {
		RespondValidationError(w, []FieldError{{Field: "label", Message: "required"}})
		return
	}

	d, err := h.dimensions.CreateDimension(r.Context(), ownerID, kind, role, req.Label)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create dimension", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toDimensionDTO(d))
}

func (h *DimensionHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	kind, appErr := kindFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	role := domain.DimensionRole(r.PathValue("role"))

	dims, err := h.dimensions.ListDimensions(r.Context(), ownerID, kind, role)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]dimensionDTO, len(dims))
	for i := range dims {
		dtos[i] = toDimensionDTO(&dims[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *DimensionHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	id, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req dimensionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Label == "" {
		RespondValidationError(w, []FieldError{{Field: "label", Message: "required"}})
		return
	}

	d, err := h.dimensions.RenameDimension(r.Context(), ownerID, id, req.Label)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toDimensionDTO(d))
}

func (h *DimensionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	id, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.dimensions.DeleteDimension(r.Context(), ownerID, id); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}
