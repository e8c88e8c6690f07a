package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mantasgo/portfolio-ledger/internal/auth"
	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

// ownerFromContext returns the authenticated owner; every core operation is
// scoped to it explicitly.
func ownerFromContext(r *http.Request) (uuid.UUID, *AppError) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, ErrMissingToken
	}
	return ownerID, nil
}

func idFromPath(r *http.Request, name string) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}
	return id, nil
}

func kindFromPath(r *http.Request) (domain.EntryKind, *AppError) {
	kind := domain.EntryKind(r.PathValue("kind"))
	if !kind.IsValid() {
		return "", ErrInvalidKind
	}
	return kind, nil
}
