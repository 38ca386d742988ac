// Package notifier delivers run reports to an operator channel.
package notifier

import "context"

// Notifier delivers one formatted message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Noop discards all messages. Used when no delivery channel is configured.
type Noop struct{}

func (Noop) Send(_ context.Context, _ string) error { return nil }
