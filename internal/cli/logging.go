package cli

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/budgetkeeper/internal/input"
	"github.com/mmynk/budgetkeeper/internal/service"
	"github.com/mmynk/budgetkeeper/internal/storage"
)

// logCommand logs the outcome of one command invocation. Rejected input is
// a user mistake and logs at debug; anything else that failed is a warning.
func logCommand(cmd *cobra.Command, err error, elapsed time.Duration) {
	name := "budget"
	if cmd != nil {
		name = cmd.CommandPath()
	}
	duration := elapsed.Milliseconds()

	if err == nil {
		slog.Debug("Command ok", "command", name, "duration_ms", duration)
		return
	}

	var (
		validationErr *input.ValidationError
		importErr     *storage.ImportError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &importErr),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, errNoCurrentPeriod),
		errors.Is(err, errClearNotConfirmed):
		slog.Debug("Command rejected", "command", name, "error", err, "duration_ms", duration)
	default:
		slog.Warn("Command failed", "command", name, "error", err, "duration_ms", duration)
	}
}
