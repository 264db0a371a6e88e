package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raborimet/crm-api/internal/apiclient"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := requireAccess(cmd.Context(), apiclient.PolicyAuthenticated)
		if err != nil {
			return err
		}
		page, err := rt.client.ListProjects(cmd.Context(), listParamsFromFlags(cmd))
		if err != nil {
			return err
		}
		if done, err := printResult(page); done {
			return err
		}
		table := newTable()
		fmt.Fprintln(table, "ID\tCODE\tNAME\tSTATUS\tPRIORITY\tBUDGET\tPROGRESS")
		for _, p := range page.Projects {
			fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%s\t%.2f\t%d%%\n",
				p.ID, p.Code, p.Name, p.Status, p.Priority, p.Budget, p.Progress)
		}
		if err := table.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d of %d projects\n", len(page.Projects), page.Total)
		return nil
	},
}

var projectsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		rt, err := requireAccess(cmd.Context(), apiclient.PolicyAuthenticated)
		if err != nil {
			return err
		}
		project, err := rt.client.GetProject(cmd.Context(), id)
		if err != nil {
			return err
		}
		if done, err := printResult(project); done {
			return err
		}
		fmt.Printf("#%d %s (%s)\nstatus: %s, priority: %s\nbudget: %.2f, estimated: %.2f, actual: %.2f\nprogress: %d%%\n",
			project.ID, project.Name, project.Code, project.Status, project.Priority,
			project.Budget, project.EstimatedCost, project.ActualCost, project.Progress)
		return nil
	},
}

var projectsProgressCmd = &cobra.Command{
	Use:   "progress <id> <percent>",
	Short: "Set a project's progress",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		progress, err := strconv.Atoi(args[1])
		if err != nil || progress < 0 || progress > 100 {
			return fmt.Errorf("progress must be 0-100, got %q", args[1])
		}
		rt, err := requireAccess(cmd.Context(), apiclient.PolicyManagerOrAdmin)
		if err != nil {
			return err
		}
		project, err := rt.client.UpdateProjectProgress(cmd.Context(), id, progress)
		if err != nil {
			return err
		}
		fmt.Printf("Project #%d progress is now %d%% (%s)\n", project.ID, project.Progress, project.Status)
		return nil
	},
}

func init() {
	addListFlags(projectsListCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsGetCmd, projectsProgressCmd)
	rootCmd.AddCommand(projectsCmd)
}
