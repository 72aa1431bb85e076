package commands

import (
	"github.com/spf13/cobra"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
	"github.com/robertrullyp/DRSIS-sub000/internal/reports"
	"github.com/robertrullyp/DRSIS-sub000/internal/services"
)

func newReportCommand(app *App) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Derive financial reports from the approved ledger",
	}

	var (
		from       string
		to         string
		registerID string
	)
	reportCmd.PersistentFlags().StringVar(&from, "from", "", "range start (YYYY-MM-DD, default current month)")
	reportCmd.PersistentFlags().StringVar(&to, "to", "", "range end (YYYY-MM-DD, default current month)")
	reportCmd.PersistentFlags().StringVar(&registerID, "register", "", "scope to one register (where supported)")

	params := func() (services.ReportParams, error) {
		start, err := parseDateFlag(from, "from")
		if err != nil {
			return services.ReportParams{}, err
		}
		end, err := parseDateFlag(to, "to")
		if err != nil {
			return services.ReportParams{}, err
		}
		return services.ReportParams{Start: start, End: end, RegisterID: registerID}, nil
	}

	var groupBy string
	cashBookCmd := &cobra.Command{
		Use:   "cashbook",
		Short: "Cash book with running balance and daily/monthly buckets",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params()
			if err != nil {
				return err
			}
			report, err := app.Reports.CashBook(cmd.Context(), p, reports.GroupBy(groupBy))
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	cashBookCmd.Flags().StringVar(&groupBy, "group-by", "daily", "daily or monthly buckets")

	cashFlowCmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Cash-flow statement across all registers",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params()
			if err != nil {
				return err
			}
			report, err := app.Reports.CashFlow(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Replay the ledger per register and report balance drift",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params()
			if err != nil {
				return err
			}
			report, err := app.Reports.Reconciliation(cmd.Context(), p)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}

	var budgetKind string
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Budget vs actual per account",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params()
			if err != nil {
				return err
			}
			report, err := app.Reports.BudgetVsActual(cmd.Context(), p, finance.BudgetKind(budgetKind))
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
	budgetCmd.Flags().StringVar(&budgetKind, "kind", "", "INCOME or EXPENSE (empty = both)")

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Period-close bundle of all four reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params()
			if err != nil {
				return err
			}
			bundle, err := app.Reports.BuildAll(cmd.Context(), p, reports.GroupDaily)
			if err != nil {
				return err
			}
			return printJSON(cmd, bundle)
		},
	}

	reportCmd.AddCommand(cashBookCmd, cashFlowCmd, reconcileCmd, budgetCmd, allCmd)
	return reportCmd
}
