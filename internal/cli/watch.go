package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"authgate/internal/usecase"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the session alive until interrupted",
	Long: `Run the credential refresh loop in the foreground. The credential is
renewed on a fixed cadence; when renewal fails for good the session is
cleared and the command exits.

Useful for long-lived scripted sessions:
  authgate login --email you@example.com
  authgate watch &`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if _, ok := a.store.Get(); !ok {
		return fmt.Errorf("not logged in")
	}

	unbind := usecase.BindSessionInvalidation(a.bus, a.cache, a.scheduler, logger)
	defer unbind()

	a.scheduler.Arm()
	a.printer.Info("Refreshing credential every %s, Ctrl-C to stop", cfg.RefreshInterval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			a.scheduler.Disarm()
			a.printer.Plain("Stopped")
			return nil
		case <-ticker.C:
			if !a.scheduler.Armed() {
				return fmt.Errorf("session expired, please login again")
			}
		}
	}
}
