package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"authgate/internal/output"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active identity",
	Long: `Show the identity bound to the stored credential: user, tenant, roles,
and permissions.

Examples:
  authgate whoami                # Human-readable summary
  authgate whoami --json         # Machine-readable output
  authgate whoami --claims       # Include raw credential claims`,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("json", false, "output as JSON")
	whoamiCmd.Flags().Bool("claims", false, "show unverified credential claims")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if _, ok := a.store.Get(); !ok {
		return fmt.Errorf("not logged in")
	}

	identity, err := a.cache.Read(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(identity)
	}

	a.printer.Header("Identity")
	table := output.NewTable([]string{"FIELD", "VALUE"})
	table.AddRow([]string{"User", identity.Username})
	table.AddRow([]string{"User ID", identity.UserID})
	table.AddRow([]string{"Tenant", identity.TenantName})
	table.AddRow([]string{"Tenant ID", identity.TenantID})
	table.AddRow([]string{"Roles", strings.Join(identity.Roles, ", ")})
	table.AddRow([]string{"Permissions", strings.Join(identity.Permissions, ", ")})
	if len(identity.CustomPermissions) > 0 {
		table.AddRow([]string{"Custom", strings.Join(identity.CustomPermissions, ", ")})
	}
	table.Render()

	showClaims, _ := cmd.Flags().GetBool("claims")
	if showClaims {
		return printClaims(a)
	}
	return nil
}

// printClaims decodes the stored credential without verifying its signature.
// Verification is the backend's job; this is purely informational.
func printClaims(a *app) error {
	cred, ok := a.store.Get()
	if !ok {
		return fmt.Errorf("not logged in")
	}

	token, _, err := jwt.NewParser().ParseUnverified(cred, jwt.MapClaims{})
	if err != nil {
		return fmt.Errorf("credential is not a parseable token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("unexpected claims shape")
	}

	a.printer.Header("Credential claims (unverified)")
	table := output.NewTable([]string{"CLAIM", "VALUE"})
	for _, key := range []string{"sub", "iss", "aud", "iat", "exp"} {
		v, present := claims[key]
		if !present {
			continue
		}
		table.AddRow([]string{key, formatClaim(key, v)})
	}
	table.Render()
	return nil
}

func formatClaim(key string, v any) string {
	if key == "iat" || key == "exp" {
		if f, ok := v.(float64); ok {
			return time.Unix(int64(f), 0).UTC().Format(time.RFC3339)
		}
	}
	return fmt.Sprintf("%v", v)
}
