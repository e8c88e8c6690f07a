package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

type reportRepo interface {
	Search(ctx context.Context, ownerID uuid.UUID, f domain.EntryFilter) ([]domain.Entry, error)
	Stats(ctx context.Context, ownerID uuid.UUID, f domain.EntryFilter) (domain.Stats, error)
	Monthly(ctx context.Context, ownerID uuid.UUID, f domain.EntryFilter) ([]domain.MonthBucket, error)
}

// Service computes filtered entry sets and their statistics. All amounts in
// results are rounded to two decimal places.
type Service struct {
	reports reportRepo
}

func NewService(reports reportRepo) *Service {
	return &Service{reports: reports}
}

// Result is one filtered entry set with its summary statistics.
type Result struct {
	Entries []domain.Entry
	Stats   domain.Stats
}

// Comparison holds two independently filtered results evaluated side by side
// and the difference between their totals.
type Comparison struct {
	Primary    Result
	Secondary  Result
	Difference decimal.Decimal
}

// MonthlyReport is the archival view: per-month buckets, statistics of the
// per-month sums across all buckets, and the plain statistics of the whole
// filtered period for comparison against any single month.
type MonthlyReport struct {
	Buckets       []domain.MonthBucket
	AvgMonthlySum decimal.Decimal
	MaxMonthlySum decimal.Decimal
	MinMonthlySum decimal.Decimal
	Period        domain.Stats
}

func (s *Service) Search(ctx context.Context, ownerID uuid.UUID, c Criteria) (*Result, error) {
	f, err := compile(c, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}

	entries, err := s.reports.Search(ctx, ownerID, f)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	stats, err := s.reports.Stats(ctx, ownerID, f)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}

	return &Result{Entries: entries, Stats: roundStats(stats)}, nil
}

// Compare evaluates two independent criteria sets and reports the difference
// between their totals (primary minus secondary).
func (s *Service) Compare(ctx context.Context, ownerID uuid.UUID, primary, secondary Criteria) (*Comparison, error) {
	a, err := s.Search(ctx, ownerID, primary)
	if err != nil {
		return nil, fmt.Errorf("Compare: primary: %w", err)
	}
	b, err := s.Search(ctx, ownerID, secondary)
	if err != nil {
		return nil, fmt.Errorf("Compare: secondary: %w", err)
	}

	return &Comparison{
		Primary:    *a,
		Secondary:  *b,
		Difference: a.Stats.Sum.Sub(b.Stats.Sum).Round(2),
	}, nil
}

// Monthly buckets the filtered entries by calendar month and layers the
// statistics-of-statistics over the per-month sums on top.
func (s *Service) Monthly(ctx context.Context, ownerID uuid.UUID, c Criteria) (*MonthlyReport, error) {
	f, err := compile(c, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("Monthly: %w", err)
	}

	buckets, err := s.reports.Monthly(ctx, ownerID, f)
	if err != nil {
		return nil, fmt.Errorf("Monthly: %w", err)
	}
	period, err := s.reports.Stats(ctx, ownerID, f)
	if err != nil {
		return nil, fmt.Errorf("Monthly: %w", err)
	}

	for i := range buckets {
		buckets[i].Sum = buckets[i].Sum.Round(2)
		buckets[i].Avg = buckets[i].Avg.Round(2)
		buckets[i].Max = buckets[i].Max.Round(2)
		buckets[i].Min = buckets[i].Min.Round(2)
	}

	rep := &MonthlyReport{Buckets: buckets, Period: roundStats(period)}
	rep.AvgMonthlySum, rep.MaxMonthlySum, rep.MinMonthlySum = monthlySumStats(buckets)
	return rep, nil
}

// monthlySumStats computes avg/max/min over the per-month sums. No buckets
// yields zeros.
func monthlySumStats(buckets []domain.MonthBucket) (avg, max, min decimal.Decimal) {
	if len(buckets) == 0 {
		return decimal.Zero, decimal.Zero, decimal.Zero
	}

	total := decimal.Zero
	max = buckets[0].Sum
	min = buckets[0].Sum
	for _, b := range buckets {
		total = total.Add(b.Sum)
		if b.Sum.GreaterThan(max) {
			max = b.Sum
		}
		if b.Sum.LessThan(min) {
			min = b.Sum
		}
	}
	avg = total.Div(decimal.NewFromInt(int64(len(buckets)))).Round(2)
	return avg, max.Round(2), min.Round(2)
}

func roundStats(s domain.Stats) domain.Stats {
	s.Sum = s.Sum.Round(2)
	s.Avg = s.Avg.Round(2)
	s.Max = s.Max.Round(2)
	s.Min = s.Min.Round(2)
	return s
}
