package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/logging"
	"github.com/mantasgo/portfolio-ledger/internal/service/ledger"
)

const dateLayout = "2006-01-02"

type ledgerService interface {
	CreateEntry(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, in ledger.EntryInput) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, ownerID, entryID uuid.UUID, in ledger.EntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, ownerID, entryID uuid.UUID) error
	GetEntry(ctx context.Context, ownerID, entryID uuid.UUID) (*domain.Entry, error)
	ListEntries(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, query string) ([]domain.Entry, error)
}

type EntryHandler struct {
	ledger ledgerService
}

func NewEntryHandler(ledger ledgerService) *EntryHandler {
	return &EntryHandler{ledger: ledger}
}

type entryDTO struct {
	ID             uuid.UUID       `json:"id"`
	Kind           string          `json:"kind"`
	InputDate      time.Time       `json:"input_date"`
	Date           string          `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	CounterpartyID *uuid.UUID      `json:"counterparty_id"`
	BankID         *uuid.UUID      `json:"bank_id"`
	Notes          string          `json:"notes"`
	DocumentPath   *string         `json:"document_path"`
}

func toEntryDTO(e *domain.Entry) entryDTO {
	return entryDTO{
		ID:             e.ID,
		Kind:           string(e.Kind),
		InputDate:      e.InputDate,
		Date:           e.Date.Format(dateLayout),
		Amount:         e.Amount,
		CategoryID:     e.CategoryID,
		CounterpartyID: e.CounterpartyID,
		BankID:         e.BankID,
		Notes:          e.Notes,
		DocumentPath:   e.DocumentPath,
	}
}

func toEntryDTOs(entries []domain.Entry) []entryDTO {
	dtos := make([]entryDTO, len(entries))
	for i := range entries {
		dtos[i] = toEntryDTO(&entries[i])
	}
	return dtos
}

type entryRequest struct {
	Date           string          `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	CategoryID     *uuid.UUID      `json:"category_id"`
	CounterpartyID *uuid.UUID      `json:"counterparty_id"`
	BankID         *uuid.UUID      `json:"bank_id"`
	Notes          string          `json:"notes"`
	DocumentPath   *string         `json:"document_path"`
}

func (r entryRequest) toInput() (ledger.EntryInput, []FieldError) {
	var errs []FieldError
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		errs = append(errs, FieldError{Field: "date", Message: "must be a YYYY-MM-DD date"})
	}
	if len(errs) > 0 {
		return ledger.EntryInput{}, errs
	}
	return ledger.EntryInput{
		Date:           date,
		Amount:         r.Amount,
		CategoryID:     r.CategoryID,
		CounterpartyID: r.CounterpartyID,
		BankID:         r.BankID,
		Notes:          r.Notes,
		DocumentPath:   r.DocumentPath,
	}, nil
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	in, fields := req.toInput()
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entry, err := h.ledger.CreateEntry(r.Context(), ownerID, kind, in)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create entry", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toEntryDTO(entry))
}

func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.ledger.ListEntries(r.Context(), ownerID, kind, r.URL.Query().Get("q"))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list entries", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toEntryDTOs(entries))
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	entryID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	entry, err := h.ledger.GetEntry(r.Context(), ownerID, entryID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toEntryDTO(entry))
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	entryID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	in, fields := req.toInput()
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entry, err := h.ledger.UpdateEntry(r.Context(), ownerID, entryID, in)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update entry", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toEntryDTO(entry))
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	entryID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.ledger.DeleteEntry(r.Context(), ownerID, entryID); err != nil {
		logging.FromContext(r.Context()).Error("failed to delete entry", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}
