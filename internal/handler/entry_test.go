package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantasgo/portfolio-ledger/internal/auth"
	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/service/ledger"
)

type mockLedger struct {
	entry *domain.Entry
	err   error

	gotOwner uuid.UUID
	gotKind  domain.EntryKind
	gotInput ledger.EntryInput
}

func (m *mockLedger) CreateEntry(_ context.Context, ownerID uuid.UUID, kind domain.EntryKind, in ledger.EntryInput) (*domain.Entry, error) {
	m.gotOwner, m.gotKind, m.gotInput = ownerID, kind, in
	return m.entry, m.err
}

func (m *mockLedger) UpdateEntry(_ context.Context, ownerID, _ uuid.UUID, in ledger.EntryInput) (*domain.Entry, error) {
	m.gotOwner, m.gotInput = ownerID, in
	return m.entry, m.err
}

func (m *mockLedger) DeleteEntry(_ context.Context, ownerID, _ uuid.UUID) error {
	m.gotOwner = ownerID
	return m.err
}

func (m *mockLedger) GetEntry(_ context.Context, ownerID, _ uuid.UUID) (*domain.Entry, error) {
	m.gotOwner = ownerID
	return m.entry, m.err
}

func (m *mockLedger) ListEntries(_ context.Context, ownerID uuid.UUID, kind domain.EntryKind, _ string) ([]domain.Entry, error) {
	m.gotOwner, m.gotKind = ownerID, kind
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Entry{*m.entry}, nil
}

func authedRequest(method, target, body string, ownerID uuid.UUID) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	return r.WithContext(auth.ContextWithUserID(r.Context(), ownerID))
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestEntryHandler_Create(t *testing.T) {
	ownerID := uuid.New()
	entry := &domain.Entry{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Kind:    domain.KindIncome,
		Date:    time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC),
		Amount:  decimal.NewFromInt(100),
	}

	tests := []struct {
		name       string
		kind       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "happy path",
			kind:       "income",
			body:       `{"date":"2025-05-02","amount":"100"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed body",
			kind:       "income",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "bad date format",
			kind:       "income",
			body:       `{"date":"02/05/2025","amount":"100"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "unknown kind segment",
			kind:       "savings",
			body:       `{"date":"2025-05-02","amount":"100"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_KIND",
		},
		{
			name:       "insufficient funds maps to 422",
			kind:       "expenses",
			body:       `{"date":"2025-05-02","amount":"100"}`,
			svcErr:     domain.ErrInsufficientFunds,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INSUFFICIENT_FUNDS",
		},
		{
			name:       "future date maps to 400",
			kind:       "income",
			body:       `{"date":"2025-05-02","amount":"100"}`,
			svcErr:     domain.ErrFutureDate,
			wantStatus: http.StatusBadRequest,
			wantCode:   "FUTURE_DATE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockLedger{entry: entry, err: tc.svcErr}
			h := NewEntryHandler(mock)

			r := authedRequest(http.MethodPost, "/api/v1/"+tc.kind+"/entries", tc.body, ownerID)
			r.SetPathValue("kind", tc.kind)
			rec := httptest.NewRecorder()

			h.Create(rec, r)

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			if tc.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
				return
			}
			assert.True(t, resp.Success)
			assert.Equal(t, ownerID, mock.gotOwner)
		})
	}
}

func TestEntryHandler_CreateRequiresAuth(t *testing.T) {
	h := NewEntryHandler(&mockLedger{})

	r := httptest.NewRequest(http.MethodPost, "/api/v1/income/entries", strings.NewReader(`{}`))
	r.SetPathValue("kind", "income")
	rec := httptest.NewRecorder()

	h.Create(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEntryHandler_GetNotFound(t *testing.T) {
	h := NewEntryHandler(&mockLedger{err: domain.ErrNotFound})

	r := authedRequest(http.MethodGet, "/api/v1/entries/"+uuid.NewString(), "", uuid.New())
	r.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.Get(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RESOURCE_NOT_FOUND", resp.Error.Code)
}

func TestEntryHandler_GetRejectsMalformedID(t *testing.T) {
	h := NewEntryHandler(&mockLedger{})

	r := authedRequest(http.MethodGet, "/api/v1/entries/not-a-uuid", "", uuid.New())
	r.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Get(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
