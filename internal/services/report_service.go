package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
	"github.com/robertrullyp/DRSIS-sub000/internal/reports"
	"github.com/robertrullyp/DRSIS-sub000/internal/storage"
)

// ReportService resolves date ranges, loads consistent ledger snapshots
// and dispatches to the pure builders in the reports package.
type ReportService struct {
	store      ReportStore
	classifier reports.SectionClassifier
	now        func() time.Time
}

// NewReportService builds a ReportService. A nil classifier falls back to
// the default category-text heuristic.
func NewReportService(store ReportStore, classifier reports.SectionClassifier) *ReportService {
	if classifier == nil {
		classifier = reports.DefaultClassifier()
	}
	return &ReportService{
		store:      store,
		classifier: classifier,
		now:        time.Now,
	}
}

// ReportParams carries the shared report inputs. A zero Start and End
// default to the current calendar month; RegisterID empty means all
// registers.
type ReportParams struct {
	Start      time.Time
	End        time.Time
	RegisterID string
}

func (s *ReportService) CashBook(ctx context.Context, p ReportParams, groupBy reports.GroupBy) (reports.CashBookReport, error) {
	if groupBy == "" {
		groupBy = reports.GroupDaily
	}
	if !groupBy.Valid() {
		return reports.CashBookReport{}, finance.ValidationErrorf("invalid groupBy %q", groupBy)
	}
	rng, err := finance.NewDateRange(p.Start, p.End, s.now())
	if err != nil {
		return reports.CashBookReport{}, err
	}
	snap, err := s.store.LoadLedgerSnapshot(ctx, storage.SnapshotScope{RegisterID: p.RegisterID})
	if err != nil {
		return reports.CashBookReport{}, err
	}
	return reports.BuildCashBook(snap.Registers, snap.Transactions, rng, groupBy, p.RegisterID), nil
}

// CashFlow always spans all registers; internal transfers are isolated by
// the builder, never classified.
func (s *ReportService) CashFlow(ctx context.Context, p ReportParams) (reports.CashFlowReport, error) {
	rng, err := finance.NewDateRange(p.Start, p.End, s.now())
	if err != nil {
		return reports.CashFlowReport{}, err
	}
	snap, err := s.store.LoadLedgerSnapshot(ctx, storage.SnapshotScope{})
	if err != nil {
		return reports.CashFlowReport{}, err
	}
	return reports.BuildCashFlow(snap.Accounts, snap.Transactions, rng, s.classifier), nil
}

func (s *ReportService) Reconciliation(ctx context.Context, p ReportParams) (reports.ReconciliationReport, error) {
	rng, err := finance.NewDateRange(p.Start, p.End, s.now())
	if err != nil {
		return reports.ReconciliationReport{}, err
	}
	snap, err := s.store.LoadLedgerSnapshot(ctx, storage.SnapshotScope{RegisterID: p.RegisterID})
	if err != nil {
		return reports.ReconciliationReport{}, err
	}
	dangling, err := s.store.DanglingTransferLegs(ctx)
	if err != nil {
		return reports.ReconciliationReport{}, err
	}
	return reports.BuildReconciliation(snap.Registers, snap.Transactions, rng, dangling), nil
}

func (s *ReportService) BudgetVsActual(ctx context.Context, p ReportParams, kind finance.BudgetKind) (reports.BudgetVsActualReport, error) {
	if kind != "" && !kind.Valid() {
		return reports.BudgetVsActualReport{}, finance.ValidationErrorf("invalid budget kind %q", kind)
	}
	rng, err := finance.NewDateRange(p.Start, p.End, s.now())
	if err != nil {
		return reports.BudgetVsActualReport{}, err
	}
	snap, err := s.store.LoadLedgerSnapshot(ctx, storage.SnapshotScope{
		RegisterID:  p.RegisterID,
		WithBudgets: true,
		BudgetFilter: storage.BudgetFilter{
			Overlapping: &rng,
			Kind:        kind,
			RegisterID:  p.RegisterID,
		},
	})
	if err != nil {
		return reports.BudgetVsActualReport{}, err
	}
	return reports.BuildBudgetVsActual(snap.Budgets, snap.Accounts, snap.Transactions, rng, kind, p.RegisterID), nil
}

// ReportBundle is a period-close package of all four reports over the
// same date range.
type ReportBundle struct {
	CashBook       reports.CashBookReport
	CashFlow       reports.CashFlowReport
	Reconciliation reports.ReconciliationReport
	BudgetVsActual reports.BudgetVsActualReport
}

// BuildAll builds the four reports concurrently. Each report loads its own
// snapshot; builders are pure so the fan-out shares nothing mutable.
func (s *ReportService) BuildAll(ctx context.Context, p ReportParams, groupBy reports.GroupBy) (ReportBundle, error) {
	var bundle ReportBundle

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bundle.CashBook, err = s.CashBook(ctx, p, groupBy)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.CashFlow, err = s.CashFlow(ctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.Reconciliation, err = s.Reconciliation(ctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		bundle.BudgetVsActual, err = s.BudgetVsActual(ctx, p, "")
		return err
	})

	if err := g.Wait(); err != nil {
		return ReportBundle{}, err
	}
	return bundle, nil
}
