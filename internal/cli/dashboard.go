package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raborimet/crm-api/internal/apiclient"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard headline figures",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := requireAccess(cmd.Context(), apiclient.PolicyAuthenticated)
		if err != nil {
			return err
		}
		stats, err := rt.client.GetDashboardStats(cmd.Context())
		if err != nil {
			return err
		}
		if done, err := printResult(stats); done {
			return err
		}
		fmt.Printf("clients:  %d total, %d active\n",
			stats.Clients.TotalClients, stats.Clients.ActiveClients)
		fmt.Printf("projects: %d total, %d active, budget %.2f\n",
			stats.Projects.TotalProjects, stats.Projects.ActiveProjects, stats.Projects.TotalBudget)
		fmt.Printf("quotes:   %d total, accepted value %.2f of %.2f\n",
			stats.Quotes.TotalQuotes, stats.Quotes.AcceptedValue, stats.Quotes.TotalValue)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
