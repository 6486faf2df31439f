package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"authgate/internal/usecase"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Evaluate access to a route for the active identity",
	Long: `Evaluate whether the active session may access a route, optionally
requiring specific roles. Prints the resulting decision.

Examples:
  authgate check /admin/users --role ADMIN
  authgate check /dashboard`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringSlice("role", nil, "required role (repeatable, any match grants)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	roles, _ := cmd.Flags().GetStringSlice("role")
	decision := a.guard.Evaluate(cmd.Context(), args[0], roles...)

	switch decision.Kind {
	case usecase.DecisionAllow:
		a.printer.Success("Allowed as %s", decision.Identity.Username)
		return nil
	case usecase.DecisionLogin:
		a.printer.Warning("Not authenticated, would redirect to %s (from %s)",
			decision.RedirectPath, decision.From)
		return fmt.Errorf("access denied")
	case usecase.DecisionRedirect:
		a.printer.Warning("Insufficient role, would redirect to %s", decision.RedirectPath)
		return fmt.Errorf("access denied")
	default:
		return fmt.Errorf("unknown decision")
	}
}
