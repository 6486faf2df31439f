package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"authgate/internal/adapter/gateway"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new tenant and admin account",
	Long: `Register a new tenant with its first admin user. The account must be
activated with the mailed token before it can log in.`,
	RunE: runRegister,
}

var activateCmd = &cobra.Command{
	Use:   "activate <token>",
	Short: "Activate an account with the mailed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("--password is required")
		}
		if err := a.client.ActivateAccount(cmd.Context(), args[0], password); err != nil {
			return err
		}
		a.printer.Success("Account activated, you can log in now")
		return nil
	},
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Request or complete a password reset",
}

var passwdRequestCmd = &cobra.Command{
	Use:   "request <email>",
	Short: "Mail a password reset token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.client.RequestPasswordReset(cmd.Context(), args[0]); err != nil {
			return err
		}
		a.printer.Success("Reset token sent to %s", args[0])
		return nil
	},
}

var passwdResetCmd = &cobra.Command{
	Use:   "reset <token>",
	Short: "Set a new password with the mailed token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("--password is required")
		}
		if err := a.client.ResetPassword(cmd.Context(), args[0], password); err != nil {
			return err
		}
		a.printer.Success("Password updated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().String("tenant", "", "tenant name")
	registerCmd.Flags().String("email", "", "admin email")
	registerCmd.Flags().String("username", "", "admin username")

	rootCmd.AddCommand(activateCmd)
	activateCmd.Flags().String("password", "", "initial password")

	rootCmd.AddCommand(passwdCmd)
	passwdCmd.AddCommand(passwdRequestCmd)
	passwdCmd.AddCommand(passwdResetCmd)
	passwdResetCmd.Flags().String("password", "", "new password")
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	tenant, _ := cmd.Flags().GetString("tenant")
	email, _ := cmd.Flags().GetString("email")
	username, _ := cmd.Flags().GetString("username")
	if tenant == "" || email == "" || username == "" {
		return fmt.Errorf("--tenant, --email, and --username are required")
	}

	err = a.client.Register(cmd.Context(), gateway.RegisterRequest{
		TenantName: tenant,
		Email:      email,
		Username:   username,
	})
	if err != nil {
		return err
	}

	a.printer.Success("Registered %s, check %s for the activation token", tenant, email)
	return nil
}
