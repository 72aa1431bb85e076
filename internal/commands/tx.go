package commands

import (
	"github.com/spf13/cobra"

	"github.com/robertrullyp/DRSIS-sub000/internal/finance"
	"github.com/robertrullyp/DRSIS-sub000/internal/services"
	"github.com/robertrullyp/DRSIS-sub000/internal/storage"
)

func newTxCommand(app *App) *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Ledger entries and their approval workflow",
	}

	txCmd.AddCommand(newTxCreateCommand(app))
	txCmd.AddCommand(newTxTransferCommand(app))
	txCmd.AddCommand(newTxCheckCommand(app))
	txCmd.AddCommand(newTxApproveCommand(app))
	txCmd.AddCommand(newTxRejectCommand(app))
	txCmd.AddCommand(newTxCancelCommand(app))
	txCmd.AddCommand(newTxShowCommand(app))
	txCmd.AddCommand(newTxListCommand(app))

	return txCmd
}

func newTxCreateCommand(app *App) *cobra.Command {
	var (
		date        string
		kind        string
		amount      string
		accountID   string
		registerID  string
		description string
		referenceNo string
		proofURL    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a new PENDING income or expense entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			txnDate, err := parseDateFlag(date, "date")
			if err != nil {
				return err
			}
			amt, err := finance.ParseAmount(amount)
			if err != nil {
				return err
			}

			t, err := app.Ledger.Create(cmd.Context(), services.TransactionDraft{
				TxnDate:           txnDate,
				Kind:              finance.TxnKind(kind),
				Amount:            amt,
				AccountID:         accountID,
				CashBankAccountID: registerID,
				Description:       description,
				ReferenceNo:       referenceNo,
				ProofURL:          proofURL,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, t)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&kind, "kind", "", "INCOME or EXPENSE")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount")
	cmd.Flags().StringVar(&accountID, "account", "", "chart-of-accounts id")
	cmd.Flags().StringVar(&registerID, "register", "", "cash/bank register id")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&referenceNo, "reference", "", "external reference number")
	cmd.Flags().StringVar(&proofURL, "proof", "", "URL of the supporting document")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("kind")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("account")
	cmd.MarkFlagRequired("register")

	return cmd
}

func newTxTransferCommand(app *App) *cobra.Command {
	var (
		date         string
		amount       string
		fromRegister string
		toRegister   string
		outAccount   string
		inAccount    string
		description  string
		referenceNo  string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Record both PENDING legs of an internal transfer",
		RunE: func(cmd *cobra.Command, args []string) error {
			txnDate, err := parseDateFlag(date, "date")
			if err != nil {
				return err
			}
			amt, err := finance.ParseAmount(amount)
			if err != nil {
				return err
			}

			out, in, err := app.Ledger.CreateTransfer(cmd.Context(), services.TransferDraft{
				TxnDate:        txnDate,
				Amount:         amt,
				FromRegisterID: fromRegister,
				ToRegisterID:   toRegister,
				OutAccountID:   outAccount,
				InAccountID:    inAccount,
				Description:    description,
				ReferenceNo:    referenceNo,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, []finance.Transaction{out, in})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transfer date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount")
	cmd.Flags().StringVar(&fromRegister, "from", "", "source register id")
	cmd.Flags().StringVar(&toRegister, "to", "", "destination register id")
	cmd.Flags().StringVar(&outAccount, "out-account", "", "account for the TRANSFER_OUT leg")
	cmd.Flags().StringVar(&inAccount, "in-account", "", "account for the TRANSFER_IN leg")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	cmd.Flags().StringVar(&referenceNo, "reference", "", "external reference number")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("out-account")
	cmd.MarkFlagRequired("in-account")

	return cmd
}

func newTxCheckCommand(app *App) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "check <txn-id>",
		Short: "Mark a PENDING entry as checked (maker-checker step one)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Ledger.Check(cmd.Context(), args[0], actor)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "checker actor id")
	cmd.MarkFlagRequired("actor")
	return cmd
}

func newTxApproveCommand(app *App) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "approve <txn-id>",
		Short: "Approve a checked entry and apply its delta to the register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Ledger.Approve(cmd.Context(), args[0], actor)
			if err != nil {
				return err
			}
			return printJSON(cmd, t)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "approver actor id")
	cmd.MarkFlagRequired("actor")
	return cmd
}

func newTxRejectCommand(app *App) *cobra.Command {
	var actor, reason string
	cmd := &cobra.Command{
		Use:   "reject <txn-id>",
		Short: "Reject a PENDING entry; the register balance stays untouched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Ledger.Reject(cmd.Context(), args[0], actor, reason)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "rejecting actor id")
	cmd.Flags().StringVar(&reason, "reason", "", "rejection reason")
	cmd.MarkFlagRequired("actor")
	cmd.MarkFlagRequired("reason")
	return cmd
}

func newTxCancelCommand(app *App) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "cancel <txn-id>",
		Short: "Cancel a PENDING entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Ledger.Cancel(cmd.Context(), args[0], actor)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "cancelling actor id")
	cmd.MarkFlagRequired("actor")
	return cmd
}

func newTxShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <txn-id>",
		Short: "Show one ledger entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Ledger.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, t)
		},
	}
}

func newTxListCommand(app *App) *cobra.Command {
	var (
		registerID string
		status     string
		from       string
		to         string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromDate, err := parseDateFlag(from, "from")
			if err != nil {
				return err
			}
			toDate, err := parseDateFlag(to, "to")
			if err != nil {
				return err
			}
			txns, err := app.Ledger.List(cmd.Context(), storage.TransactionFilter{
				RegisterID: registerID,
				Status:     finance.ApprovalStatus(status),
				From:       fromDate,
				To:         toDate,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, txns)
		},
	}
	cmd.Flags().StringVar(&registerID, "register", "", "filter by register id")
	cmd.Flags().StringVar(&status, "status", "", "filter by approval status")
	cmd.Flags().StringVar(&from, "from", "", "filter from date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "filter to date (YYYY-MM-DD)")
	return cmd
}
