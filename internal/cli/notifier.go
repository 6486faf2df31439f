package cli

import (
	"context"

	"authgate/internal/domain"
	"authgate/internal/infrastructure/notify"
	"authgate/internal/output"
)

// printerNotifier surfaces session notifications as terminal warnings.
func printerNotifier(printer *output.Printer) notify.Func {
	return func(_ context.Context, n domain.Notification) {
		printer.Warning("%s", n.Message)
	}
}
