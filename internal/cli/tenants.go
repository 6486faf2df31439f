package cli

import (
	"github.com/spf13/cobra"

	"authgate/internal/output"
)

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "List and switch between your tenants",
}

var tenantsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tenants you belong to",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		tenants, err := a.switcher.Tenants(cmd.Context())
		if err != nil {
			return err
		}

		active := ""
		if identity, ok := a.cache.Peek(); ok {
			active = identity.TenantID
		}

		table := output.NewTable([]string{"ID", "NAME", "ACTIVE"})
		for _, t := range tenants {
			marker := ""
			if t.ID == active {
				marker = "*"
			}
			table.AddRow([]string{t.ID, t.Name, marker})
		}
		table.Render()
		return nil
	},
}

var tenantsSwitchCmd = &cobra.Command{
	Use:   "switch <tenant-id>",
	Short: "Re-scope the session to another tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		result, err := a.switcher.Execute(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		a.printer.Success("Switched to %s", result.Identity.TenantName)
		a.printer.Plain("Default route: %s", result.Route)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tenantsCmd)
	tenantsCmd.AddCommand(tenantsListCmd)
	tenantsCmd.AddCommand(tenantsSwitchCmd)
}
