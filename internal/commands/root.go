// Package commands wires the finance core into a CLI: ledger entry
// lifecycle, master-data management and the four reports. Every command
// prints its result as indented JSON so output can be piped to the
// platform's exporters.
package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robertrullyp/DRSIS-sub000/internal/services"
)

// App bundles the services the commands run against.
type App struct {
	Ledger  *services.LedgerService
	Master  *services.MasterDataService
	Reports *services.ReportService
}

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "drsis-finance",
		Short: "Operational cash ledger and reporting for DRSIS",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newTxCommand(app))
	rootCmd.AddCommand(newAccountCommand(app))
	rootCmd.AddCommand(newRegisterCommand(app))
	rootCmd.AddCommand(newBudgetCommand(app))
	rootCmd.AddCommand(newReportCommand(app))

	return rootCmd
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	cmd.Println(string(out))
	return nil
}

func parseDateFlag(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", name, value)
	}
	return t, nil
}
