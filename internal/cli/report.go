package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raborimet/crm-api/internal/apiclient"
)

var reportNames = map[string]bool{
	"financial": true,
	"clients":   true,
	"projects":  true,
	"quotes":    true,
}

var reportCmd = &cobra.Command{
	Use:   "report <financial|clients|projects|quotes>",
	Short: "Fetch a read-only report aggregate",
	Long: `Fetch one of the read-only report aggregates. Reports require the manager
role or above.

Examples:
  raborimet report financial --from 2026-01-01 --to 2026-06-30
  raborimet report quotes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !reportNames[name] {
			return fmt.Errorf("unknown report %q", name)
		}
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		rt, err := requireAccess(cmd.Context(), apiclient.PolicyManagerOrAdmin)
		if err != nil {
			return err
		}
		report, err := rt.client.GetReport(cmd.Context(), name, from, to)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	reportCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	reportCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	rootCmd.AddCommand(reportCmd)
}
