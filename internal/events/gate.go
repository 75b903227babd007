package events

import (
	"context"
)

// Gate forwards events to Next only while Enabled reports true. It lets a
// runtime flag switch publishing off without rebuilding the services.
type Gate struct {
	Next    Publisher
	Enabled func(ctx context.Context) bool
}

// Publish implements Publisher.
func (g Gate) Publish(ctx context.Context, event Event) error {
	if g.Enabled != nil && !g.Enabled(ctx) {
		return nil
	}
	return g.Next.Publish(ctx, event)
}

var _ Publisher = Gate{}
