package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"authgate/internal/navigation"
	"authgate/internal/output"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show the navigation menu for the active identity",
	Long: `Show the menu entries visible to the active identity, after role
selection and permission filtering, plus the default landing route.`,
	RunE: runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
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

	a.printer.Header("Menu for %s", identity.Username)
	table := output.NewTable([]string{"LABEL", "PATH", "ICON"})
	for _, item := range navigation.MenuFor(identity) {
		table.AddRow([]string{item.Label, item.Path, item.Icon})
	}
	table.Render()

	a.printer.Plain("Default route: %s", navigation.DefaultRouteFor(identity.Roles))
	a.printer.Plain("Roles: %s", strings.Join(identity.Roles, ", "))
	return nil
}
