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
	"github.com/mantasgo/portfolio-ledger/internal/service"
)

type bankService interface {
	CreateBank(ctx context.Context, ownerID uuid.UUID, name string, balance, investment decimal.Decimal) (*domain.Bank, error)
	GetBank(ctx context.Context, ownerID, bankID uuid.UUID) (*domain.Bank, error)
	ListBanks(ctx context.Context, ownerID uuid.UUID) (*service.BankOverview, error)
	RenameBank(ctx context.Context, ownerID, bankID uuid.UUID, name string) (*domain.Bank, error)
	DeleteBank(ctx context.Context, ownerID, bankID uuid.UUID) error
}

type transferService interface {
	TransferWithinBank(ctx context.Context, ownerID, bankID uuid.UUID, from, to domain.AccountSide, amount decimal.Decimal) (*domain.Bank, error)
	TransferBetweenBanks(ctx context.Context, ownerID, fromBankID, toBankID uuid.UUID, amount decimal.Decimal) (*domain.Bank, *domain.Bank, error)
}

type BankHandler struct {
	banks     bankService
	transfers transferService
}

func NewBankHandler(banks bankService, transfers transferService) *BankHandler {
	return &BankHandler{banks: banks, transfers: transfers}
}

type bankDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	Investment decimal.Decimal `json:"investment"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toBankDTO(b *domain.Bank) bankDTO {
	return bankDTO{
		ID:         b.ID,
		Name:       b.Name,
		Balance:    b.Balance,
		Investment: b.Investment,
		CreatedAt:  b.CreatedAt,
	}
}

type bankOverviewDTO struct {
	Banks           []bankDTO       `json:"banks"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
}

type createBankRequest struct {
	Name       string           `json:"name"`
	Balance    *decimal.Decimal `json:"balance"`
	Investment *decimal.Decimal `json:"investment"`
}

func (r createBankRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.Balance != nil && r.Balance.IsNegative() {
		errs = append(errs, FieldError{Field: "balance", Message: "must not be negative"})
	}
	if r.Investment != nil && r.Investment.IsNegative() {
		errs = append(errs, FieldError{Field: "investment", Message: "must not be negative"})
	}
	return errs
}

func (h *BankHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req createBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	balance, investment := decimal.Zero, decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}
	if req.Investment != nil {
		investment = *req.Investment
	}

	bank, err := h.banks.CreateBank(r.Context(), ownerID, req.Name, balance, investment)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create bank", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toBankDTO(bank))
}

func (h *BankHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	overview, err := h.banks.ListBanks(r.Context(), ownerID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list banks", "error", err)
		RespondDomainError(w, err)
		return
	}

	dto := bankOverviewDTO{
		Banks:           make([]bankDTO, len(overview.Banks)),
		TotalBalance:    overview.TotalBalance,
		TotalInvestment: overview.TotalInvestment,
	}
	for i := range overview.Banks {
		dto.Banks[i] = toBankDTO(&overview.Banks[i])
	}

	RespondSuccess(w, http.StatusOK, dto)
}

func (h *BankHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	bankID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	bank, err := h.banks.GetBank(r.Context(), ownerID, bankID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toBankDTO(bank))
}

type renameBankRequest struct {
	Name string `json:"name"`
}

func (h *BankHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	bankID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req renameBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Name == "" {
		RespondValidationError(w, []FieldError{{Field: "name", Message: "required"}})
		return
	}

	bank, err := h.banks.RenameBank(r.Context(), ownerID, bankID, req.Name)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toBankDTO(bank))
}

func (h *BankHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	bankID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.banks.DeleteBank(r.Context(), ownerID, bankID); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}

type transferWithinRequest struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

func (h *BankHandler) TransferWithin(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	bankID, appErr := idFromPath(r, "id")
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req transferWithinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	bank, err := h.transfers.TransferWithinBank(r.Context(), ownerID, bankID,
		domain.AccountSide(req.From), domain.AccountSide(req.To), req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("transfer within bank failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toBankDTO(bank))
}

type transferBetweenRequest struct {
	FromBankID uuid.UUID       `json:"from_bank_id"`
	ToBankID   uuid.UUID       `json:"to_bank_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type transferBetweenResponse struct {
	From bankDTO `json:"from"`
	To   bankDTO `json:"to"`
}

func (h *BankHandler) TransferBetween(w http.ResponseWriter, r *http.Request) {
	ownerID, appErr := ownerFromContext(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req transferBetweenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	from, to, err := h.transfers.TransferBetweenBanks(r.Context(), ownerID, req.FromBankID, req.ToBankID, req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("transfer between banks failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, transferBetweenResponse{From: toBankDTO(from), To: toBankDTO(to)})
}
