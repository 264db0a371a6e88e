// Package cli implements the raborimet operator command line. Commands drive
// the API through the apiclient package, so every call carries the stored
// credential and protected commands pass a route access check first.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "raborimet",
	Short: "Operator command line for the raborimet CRM API",
	Long: `raborimet is the operator command line for the raborimet CRM API.

It manages a persisted login session and exposes the client, project, quote,
material, dashboard and report surfaces of the API. Set CRM_API_URL to point
at the API (default http://localhost:8080/api/v1) and CRM_STATE_FILE to move
the session file away from the user config directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var outputJSON bool

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print raw JSON instead of tables")
}
