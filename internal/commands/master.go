package commands

import (
	"github.com/spf13/cobra"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
	"github.com/robertrullyp/DRSIS-sub000/internal/storage"
)

func newAccountCommand(app *App) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Chart-of-accounts management",
	}

	var (
		code     string
		name     string
		accType  string
		category string
		parentID string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add an account to the chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Master.CreateAccount(cmd.Context(), finance.Account{
				Code:     code,
				Name:     name,
				Type:     finance.AccountType(accType),
				Category: category,
				ParentID: parentID,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, a)
		},
	}
	createCmd.Flags().StringVar(&code, "code", "", "unique account code")
	createCmd.Flags().StringVar(&name, "name", "", "account name")
	createCmd.Flags().StringVar(&accType, "type", "", "ASSET, LIABILITY, EQUITY, INCOME or EXPENSE")
	createCmd.Flags().StringVar(&category, "category", "", "free-text category used by report classification")
	createCmd.Flags().StringVar(&parentID, "parent", "", "optional parent account id (display only)")
	createCmd.MarkFlagRequired("code")
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("type")

	var listType string
	var activeOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := app.Master.ListAccounts(cmd.Context(), storage.AccountFilter{
				Type:       finance.AccountType(listType),
				ActiveOnly: activeOnly,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, accounts)
		},
	}
	listCmd.Flags().StringVar(&listType, "type", "", "filter by account type")
	listCmd.Flags().BoolVar(&activeOnly, "active", false, "only active accounts")

	deactivateCmd := &cobra.Command{
		Use:   "deactivate <account-id>",
		Short: "Deactivate an account (non-retroactive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Master.GetAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.IsActive = false
			return app.Master.UpdateAccount(cmd.Context(), a)
		},
	}

	accountCmd.AddCommand(createCmd, listCmd, deactivateCmd)
	return accountCmd
}

func newRegisterCommand(app *App) *cobra.Command {
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Cash/bank register management",
	}

	var (
		code    string
		name    string
		regType string
		opening string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add a cash or bank register with its opening balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			openingBalance, err := finance.ParseAmount(opening)
			if err != nil {
				return err
			}
			r, err := app.Master.CreateRegister(cmd.Context(), finance.CashBankRegister{
				Code: code,
				Name: name,
				Type: finance.RegisterType(regType),
			}, openingBalance)
			if err != nil {
				return err
			}
			return printJSON(cmd, r)
		},
	}
	createCmd.Flags().StringVar(&code, "code", "", "unique register code")
	createCmd.Flags().StringVar(&name, "name", "", "register name")
	createCmd.Flags().StringVar(&regType, "type", "", "CASH or BANK")
	createCmd.Flags().StringVar(&opening, "opening", "", "opening balance, fixed at creation")
	createCmd.MarkFlagRequired("code")
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("type")
	createCmd.MarkFlagRequired("opening")

	var listType string
	var activeOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registers with their balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			registers, err := app.Master.ListRegisters(cmd.Context(), storage.RegisterFilter{
				Type:       finance.RegisterType(listType),
				ActiveOnly: activeOnly,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, registers)
		},
	}
	listCmd.Flags().StringVar(&listType, "type", "", "filter by register type")
	listCmd.Flags().BoolVar(&activeOnly, "active", false, "only active registers")

	deactivateCmd := &cobra.Command{
		Use:   "deactivate <register-id>",
		Short: "Deactivate a register (non-retroactive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.Master.GetRegister(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r.IsActive = false
			return app.Master.UpdateRegister(cmd.Context(), r)
		},
	}

	registerCmd.AddCommand(createCmd, listCmd, deactivateCmd)
	return registerCmd
}

func newBudgetCommand(app *App) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Budget management",
	}

	var (
		start      string
		end        string
		kind       string
		amount     string
		accountID  string
		registerID string
		notes      string
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Add a per-period budget for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			periodStart, err := parseDateFlag(start, "start")
			if err != nil {
				return err
			}
			periodEnd, err := parseDateFlag(end, "end")
			if err != nil {
				return err
			}
			amt, err := finance.ParseAmount(amount)
			if err != nil {
				return err
			}
			b, err := app.Master.CreateBudget(cmd.Context(), finance.Budget{
				PeriodStart:       periodStart,
				PeriodEnd:         periodEnd,
				Kind:              finance.BudgetKind(kind),
				Amount:            amt,
				AccountID:         accountID,
				CashBankAccountID: registerID,
				Notes:             notes,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, b)
		},
	}
	createCmd.Flags().StringVar(&start, "start", "", "period start (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&end, "end", "", "period end (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&kind, "kind", "", "INCOME or EXPENSE")
	createCmd.Flags().StringVar(&amount, "amount", "", "target amount")
	createCmd.Flags().StringVar(&accountID, "account", "", "chart-of-accounts id")
	createCmd.Flags().StringVar(&registerID, "register", "", "optional register scope (empty = all registers)")
	createCmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	createCmd.MarkFlagRequired("start")
	createCmd.MarkFlagRequired("end")
	createCmd.MarkFlagRequired("kind")
	createCmd.MarkFlagRequired("amount")
	createCmd.MarkFlagRequired("account")

	var (
		listStart string
		listEnd   string
		listKind  string
		listReg   string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets overlapping a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := storage.BudgetFilter{
				Kind:       finance.BudgetKind(listKind),
				RegisterID: listReg,
			}
			fromDate, err := parseDateFlag(listStart, "start")
			if err != nil {
				return err
			}
			toDate, err := parseDateFlag(listEnd, "end")
			if err != nil {
				return err
			}
			if !fromDate.IsZero() && !toDate.IsZero() {
				rng, err := finance.NewDateRange(fromDate, toDate, fromDate)
				if err != nil {
					return err
				}
				f.Overlapping = &rng
			}
			budgets, err := app.Master.ListBudgets(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd, budgets)
		},
	}
	listCmd.Flags().StringVar(&listStart, "start", "", "overlap window start (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listEnd, "end", "", "overlap window end (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listKind, "kind", "", "filter by budget kind")
	listCmd.Flags().StringVar(&listReg, "register", "", "filter by register id")

	budgetCmd.AddCommand(createCmd, listCmd)
	return budgetCmd
}
