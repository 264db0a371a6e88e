package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raborimet/crm-api/internal/apiclient"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage customer records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := requireAccess(cmd.Context(), apiclient.PolicyAuthenticated)
		if err != nil {
			return err
		}
		page, err := rt.client.ListClients(cmd.Context(), listParamsFromFlags(cmd))
		if err != nil {
			return err
		}
		if done, err := printResult(page); done {
			return err
		}
		table := newTable()
		fmt.Fprintln(table, "ID\tNAME\tEMAIL\tCOMPANY\tACTIVE")
		for _, c := range page.Clients {
			email := ""
			if c.Email != nil {
				email = *c.Email
			}
			fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%t\n", c.ID, c.Name, email, c.Company, c.IsActive)
		}
		if err := table.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d of %d clients\n", len(page.Clients), page.Total)
		return nil
	},
}

var clientsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one client",
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
		record, err := rt.client.GetClient(cmd.Context(), id)
		if err != nil {
			return err
		}
		if done, err := printResult(record); done {
			return err
		}
		email := ""
		if record.Email != nil {
			email = *record.Email
		}
		fmt.Printf("#%d %s\nemail: %s\nphone: %s\ncompany: %s\ncontact type: %s\nactive: %t\n",
			record.ID, record.Name, email, record.Phone, record.Company, record.ContactType, record.IsActive)
		return nil
	},
}

var clientsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a client",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return fmt.Errorf("--name is required")
		}
		req := apiclient.CreateClientRequest{Name: name}
		if email, _ := cmd.Flags().GetString("email"); email != "" {
			req.Email = &email
		}
		req.Phone, _ = cmd.Flags().GetString("phone")
		req.Company, _ = cmd.Flags().GetString("company")
		req.ContactType, _ = cmd.Flags().GetString("contact-type")

		rt, err := requireAccess(cmd.Context(), apiclient.PolicyManagerOrAdmin)
		if err != nil {
			return err
		}
		record, err := rt.client.CreateClient(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("Created client #%d %s\n", record.ID, record.Name)
		return nil
	},
}

var clientsProjectsCmd = &cobra.Command{
	Use:   "projects <id>",
	Short: "List a client's projects",
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
		projects, err := rt.client.ClientProjects(cmd.Context(), id)
		if err != nil {
			return err
		}
		if done, err := printResult(projects); done {
			return err
		}
		table := newTable()
		fmt.Fprintln(table, "ID\tCODE\tNAME\tSTATUS\tPROGRESS")
		for _, p := range projects {
			fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%d%%\n", p.ID, p.Code, p.Name, p.Status, p.Progress)
		}
		return table.Flush()
	},
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func listParamsFromFlags(cmd *cobra.Command) apiclient.ListParams {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	q, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")
	return apiclient.ListParams{Limit: limit, Offset: offset, Q: q, Status: status}
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 20, "page size")
	cmd.Flags().Int("offset", 0, "page offset")
	cmd.Flags().String("search", "", "search term")
	cmd.Flags().String("status", "", "status filter")
}

func init() {
	addListFlags(clientsListCmd)
	clientsCreateCmd.Flags().String("name", "", "client name")
	clientsCreateCmd.Flags().String("email", "", "client email")
	clientsCreateCmd.Flags().String("phone", "", "phone number")
	clientsCreateCmd.Flags().String("company", "", "company name")
	clientsCreateCmd.Flags().String("contact-type", "", "contact type (individual or company)")

	clientsCmd.AddCommand(clientsListCmd, clientsGetCmd, clientsCreateCmd, clientsProjectsCmd)
	rootCmd.AddCommand(clientsCmd)
}
