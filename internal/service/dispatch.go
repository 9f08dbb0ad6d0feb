package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/quorum/internal/notify"
)

// dispatchAll sends events after the triggering transaction committed.
// Failures never undo the state change; they come back as warnings.
func dispatchAll(ctx context.Context, d notify.Dispatcher, logger *slog.Logger, events []notify.Event) []string {
	var warnings []string
	for _, ev := range events {
		if err := d.Dispatch(ctx, ev); err != nil {
			logger.WarnContext(ctx, "notification dispatch failed",
				"kind", string(ev.Kind()),
				"error", err,
			)
			warnings = append(warnings, fmt.Sprintf("notification %s not delivered: %v", ev.Kind(), err))
		}
	}
	return warnings
}
