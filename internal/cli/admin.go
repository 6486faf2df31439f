package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"authgate/internal/output"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Platform administration (super-admin scope)",
}

var adminTenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "Manage tenants across the platform",
}

var adminTenantsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List every tenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		tenants, err := a.client.ListAllTenants(cmd.Context())
		if err != nil {
			return err
		}

		table := output.NewTable([]string{"ID", "NAME", "ACTIVE", "USERS"})
		for _, t := range tenants {
			table.AddRow([]string{t.UUID, t.Name, strconv.FormatBool(t.Active), strconv.Itoa(t.Users)})
		}
		table.Render()
		return nil
	},
}

var adminTenantsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		created, err := a.client.CreateTenant(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		a.printer.Success("Created tenant %s (%s)", created.Name, created.UUID)
		return nil
	},
}

var adminTenantsDeleteCmd = &cobra.Command{
	Use:   "delete <tenant-id>",
	Short: "Delete a tenant and everything in it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			a.printer.Warning("Deleting a tenant removes all of its users and data; rerun with --force")
			return nil
		}
		if err := a.client.DeleteTenant(cmd.Context(), args[0]); err != nil {
			return err
		}
		a.printer.Success("Deleted tenant %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminTenantsCmd)
	adminTenantsCmd.AddCommand(adminTenantsListCmd)
	adminTenantsCmd.AddCommand(adminTenantsCreateCmd)
	adminTenantsCmd.AddCommand(adminTenantsDeleteCmd)

	adminTenantsDeleteCmd.Flags().Bool("force", false, "skip the confirmation")
}
