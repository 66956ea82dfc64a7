// Package notify delivers SMS messages to farmers. The SMS provider is an
// external collaborator behind the Notifier interface; delivery failures are
// always catchable and non-fatal to callers.
package notify

import (
	"context"
	"log/slog"
)

// Notifier sends a human-readable message to a phone number.
type Notifier interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// LogNotifier simulates delivery by logging the message. It is used when no
// SMS credentials are configured, and in tests.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, phoneNumber, message string) error {
	slog.Info("simulated SMS send", "to", phoneNumber, "message", message)
	return nil
}
