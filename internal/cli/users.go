package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"authgate/internal/adapter/gateway"
	"authgate/internal/output"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts in the active tenant",
	Long: `Manage user accounts in the active tenant. Requires the ADMIN role;
the backend rejects everything else with a permission error.`,
}

var usersListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Search user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		query, _ := cmd.Flags().GetString("query")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")

		result, err := a.client.SearchUsers(cmd.Context(), query, page, size)
		if err != nil {
			return err
		}

		table := output.NewTable([]string{"ID", "USERNAME", "EMAIL", "ROLES", "ACTIVE"})
		for _, u := range result.Content {
			table.AddRow([]string{
				u.UUID, u.Username, u.Email,
				strings.Join(u.Roles, ","),
				strconv.FormatBool(u.Active),
			})
		}
		table.Render()
		a.printer.Plain("Page %d of %d (%d users)", result.Number+1, result.TotalPages, result.TotalElements)
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		roles, _ := cmd.Flags().GetStringSlice("role")
		if username == "" || email == "" {
			return fmt.Errorf("--username and --email are required")
		}

		created, err := a.client.CreateUser(cmd.Context(), gateway.CreateUserRequest{
			Username: username,
			Email:    email,
			Roles:    roles,
		})
		if err != nil {
			return err
		}
		a.printer.Success("Created user %s (%s)", created.Username, created.UUID)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.client.DeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		a.printer.Success("Deleted user %s", args[0])
		return nil
	},
}

var usersRolesCmd = &cobra.Command{
	Use:   "roles <user-id>",
	Short: "Replace a user's role set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		roles, _ := cmd.Flags().GetStringSlice("role")
		if len(roles) == 0 {
			return fmt.Errorf("at least one --role is required")
		}
		if err := a.client.AssignRoles(cmd.Context(), args[0], roles); err != nil {
			return err
		}
		a.printer.Success("Updated roles of %s to %s", args[0], strings.Join(roles, ","))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	usersCmd.AddCommand(usersRolesCmd)

	usersListCmd.Flags().String("query", "", "filter by username or email")
	usersListCmd.Flags().Int("page", 0, "page number")
	usersListCmd.Flags().Int("size", 20, "page size")

	usersCreateCmd.Flags().String("username", "", "username")
	usersCreateCmd.Flags().String("email", "", "email address")
	usersCreateCmd.Flags().StringSlice("role", nil, "role to grant (repeatable)")

	usersRolesCmd.Flags().StringSlice("role", nil, "role to set (repeatable)")
}
