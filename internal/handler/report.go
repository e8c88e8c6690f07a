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
	"github.com/mantasgo/portfolio-ledger/internal/service/report"
)

type reportService interface {
	Search(ctx context.Context, ownerID uuid.UUID, c report.Criteria) (*report.Result, error)
	Compare(ctx context.Context, ownerID uuid.UUID, primary, secondary report.Criteria) (*report.Comparison, error)
	Monthly(ctx context.Context, ownerID uuid.UUID, c report.Criteria) (*report.MonthlyReport, error)
}

type ReportHandler struct {
	reports reportService
}

func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// criteriaRequest is the search form: every field is optional and dates are
// plain YYYY-MM-DD strings.
type criteriaRequest struct {
	Start          string     `json:"start"`
	End            string     `json:"end"`
	CategoryID     *uuid.UUID `json:"category_id"`
	CounterpartyID *uuid.UUID `json:"counterparty_id"`
	BankID         *uuid.UUID `json:"bank_id"`
	Keywords       string     `json:"keywords"`
}

func (r criteriaRequest) toCriteria(kind domain.EntryKind) (report.Criteria, []FieldError) {
	var errs []FieldError
	c := report.Criteria{
		Kind:           kind,
		CategoryID:     r.CategoryID,
		CounterpartyID: r.CounterpartyID,
		BankID:         r.BankID,
		Keywords:       r.Keywords,
	}
	if r.Start != "" {
		t, err := time.Parse(dateLayout, r.Start)
		if err != nil {
			errs = append(errs, FieldError{Field: "start", Message: "must be a YYYY-MM-DD date"})
		} else {
			c.Start = &t
		}
	}
	if r.End != "" {
		t, err := time.Parse(dateLayout, r.End)
		if err != nil {
			errs = append(errs, FieldError{Field: "end", Message: "must be a YYYY-MM-DD date"})
		} else {
			c.End = &t
		}
	}
	return c, errs
}

type statsDTO struct {
	Count int64           `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
	Avg   decimal.Decimal `json:"avg"`
	Max   decimal.Decimal `json:"max"`
	Min   decimal.Decimal `json:"min"`
}

func toStatsDTO(s domain.Stats) statsDTO {
	return statsDTO{Count: s.Count, Sum: s.Sum, Avg: s.Avg, Max: s.Max, Min: s.Min}
}

type resultDTO struct {
	Entries []entryDTO `json:"entries"`
	Stats   statsDTO   `json:"stats"`
}

func toResultDTO(res *report.Result) resultDTO {
	return resultDTO{Entries: toEntryDTOs(res.Entries), Stats: toStatsDTO(res.Stats)}
}

func (h *ReportHandler) Search(w http.ResponseWriter, r *http.Request) {
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

	var req criteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	c, fields := req.toCriteria(kind)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.reports.Search(r.Context(), ownerID, c)
	if err != nil {
		logging.FromContext(r.Context()).Error("search failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toResultDTO(res))
}

type compareRequest struct {
	Primary   criteriaRequest `json:"primary"`
	Secondary criteriaRequest `json:"secondary"`
}

type comparisonDTO struct {
	Primary    resultDTO       `json:"primary"`
	Secondary  resultDTO       `json:"secondary"`
	Difference decimal.Decimal `json:"difference"`
}

func (h *ReportHandler) Compare(w http.ResponseWriter, r *http.Request) {
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

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	primary, fields := req.Primary.toCriteria(kind)
	secondary, moreFields := req.Secondary.toCriteria(kind)
	if fields = append(fields, moreFields...); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	cmp, err := h.reports.Compare(r.Context(), ownerID, primary, secondary)
	if err != nil {
		logging.FromContext(r.Context()).Error("comparison failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, comparisonDTO{
		Primary:    toResultDTO(&cmp.Primary),
		Secondary:  toResultDTO(&cmp.Secondary),
		Difference: cmp.Difference,
	})
}

type monthBucketDTO struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Count int64           `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
	Avg   decimal.Decimal `json:"avg"`
	Max   decimal.Decimal `json:"max"`
	Min   decimal.Decimal `json:"min"`
}

type monthlyReportDTO struct {
	Buckets       []monthBucketDTO `json:"buckets"`
	AvgMonthlySum decimal.Decimal  `json:"avg_monthly_sum"`
	MaxMonthlySum decimal.Decimal  `json:"max_monthly_sum"`
	MinMonthlySum decimal.Decimal  `json:"min_monthly_sum"`
	Period        statsDTO         `json:"period"`
}

func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
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

	var req criteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	c, fields := req.toCriteria(kind)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	rep, err := h.reports.Monthly(r.Context(), ownerID, c)
	if err != nil {
		logging.FromContext(r.Context()).Error("monthly report failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	dto := monthlyReportDTO{
		Buckets:       make([]monthBucketDTO, len(rep.Buckets)),
		AvgMonthlySum: rep.AvgMonthlySum,
		MaxMonthlySum: rep.MaxMonthlySum,
		MinMonthlySum: rep.MinMonthlySum,
		Period:        toStatsDTO(rep.Period),
	}
	for i, b := range rep.Buckets {
		dto.Buckets[i] = monthBucketDTO{
			Year: b.Year, Month: int(b.Month), Count: b.Count,
			Sum: b.Sum, Avg: b.Avg, Max: b.Max, Min: b.Min,
		}
	}

	RespondSuccess(w, http.StatusOK, dto)
}
