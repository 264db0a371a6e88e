package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raborimet/crm-api/internal/apiclient"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Manage inventory materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var materialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := requireAccess(cmd.Context(), apiclient.PolicyAuthenticated)
		if err != nil {
			return err
		}
		page, err := rt.client.ListMaterials(cmd.Context(), listParamsFromFlags(cmd))
		if err != nil {
			return err
		}
		if done, err := printResult(page); done {
			return err
		}
		table := newTable()
		fmt.Fprintln(table, "ID\tNAME\tCATEGORY\tUNIT\tPRICE\tSTOCK\tMIN")
		for _, m := range page.Materials {
			fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
				m.ID, m.Name, m.Category, m.Unit, m.UnitPrice, m.Stock, m.MinStock)
		}
		if err := table.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d of %d materials\n", len(page.Materials), page.Total)
		return nil
	},
}

var materialsStockCmd = &cobra.Command{
	Use:   "stock <id> <delta>",
	Short: "Adjust a material's stock by a signed amount",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		delta, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid delta %q", args[1])
		}
		reason, _ := cmd.Flags().GetString("reason")

		rt, err := requireAccess(cmd.Context(), apiclient.PolicyManagerOrAdmin)
		if err != nil {
			return err
		}
		material, err := rt.client.AdjustMaterialStock(cmd.Context(), id, delta, reason)
		if err != nil {
			return err
		}
		fmt.Printf("%s stock is now %.2f %s\n", material.Name, material.Stock, material.Unit)
		return nil
	},
}

func init() {
	addListFlags(materialsListCmd)
	materialsStockCmd.Flags().String("reason", "", "reason for the adjustment")
	materialsCmd.AddCommand(materialsListCmd, materialsStockCmd)
	rootCmd.AddCommand(materialsCmd)
}
