package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the platform API",
	Long: `Authenticate with email and password. The credential persists until it
expires or you log out.

Examples:
  authgate login --email you@example.com
  authgate login --email you@example.com --remember`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")
	loginCmd.Flags().Bool("remember", false, "request an extended session")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	remember, _ := cmd.Flags().GetBool("remember")

	if email == "" {
		return fmt.Errorf("--email is required")
	}
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	result, err := a.login.Execute(cmd.Context(), email, password, remember, "")
	if err != nil {
		return err
	}

	a.printer.Success("Logged in as %s (%s)", result.Identity.Username, result.Identity.TenantName)
	a.printer.Plain("Default route: %s", result.Destination)
	return nil
}
