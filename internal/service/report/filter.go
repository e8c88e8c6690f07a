package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

// Criteria is the raw, user-supplied search form. Every field but Kind is
// optional; zero values mean "no constraint".
type Criteria struct {
	Kind           domain.EntryKind
	Start          *time.Time
	End            *time.Time
	CategoryID     *uuid.UUID
	CounterpartyID *uuid.UUID
	BankID         *uuid.UUID

	// Keywords is a single ", "-separated string; tokens are ANDed together
	// and each token is matched by substring across the entry's text fields.
	Keywords string
}

// compile resolves the criteria into a concrete filter: missing date bounds
// default to the beginning of time and today respectively, and the keyword
// string is tokenized.
func compile(c Criteria, now time.Time) (domain.EntryFilter, error) {
	if !c.Kind.IsValid() {
		return domain.EntryFilter{}, fmt.Errorf("compile: %w", domain.ErrInvalidKind)
	}

	f := domain.EntryFilter{
		Kind:           c.Kind,
		Start:          time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:            now,
		CategoryID:     c.CategoryID,
		CounterpartyID: c.CounterpartyID,
		BankID:         c.BankID,
		Keywords:       tokenize(c.Keywords),
	}
	if c.Start != nil {
		f.Start = *c.Start
	}
	if c.End != nil {
		f.End = *c.End
	}
	return f, nil
}

// tokenize splits a ", "-separated keyword string, trimming each token and
// dropping empty ones. An empty input yields no keyword filtering.
func tokenize(keywords string) []string {
	if keywords == "" {
		return nil
	}
	var tokens []string
	for _, raw := range strings.Split(keywords, ", ") {
		if t := strings.TrimSpace(raw); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
