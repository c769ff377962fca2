// Package guardrails holds cross cutting safety helpers for ingest
package guardrails

import (
	"context"
	"time"
)

// Timeouts is an optional budget bundle for processing one server.
// Zero values mean no extra timeout at that level
type Timeouts struct {
	// Server is the overall time budget for one server's run
	Server time.Duration

	// Dial caps the connect and handshake step
	Dial time.Duration

	// Read caps a single remote file download
	Read time.Duration

	// DB caps a persistence step
	DB time.Duration
}

// WithServer returns a context limited by the per server budget without
// extending any parent deadline. A zero budget yields a cancelable
// child that simply inherits the parent deadline
func WithServer(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Server)
}

// ForDial returns a sub context for the connect phase bounded by Dial
// and any remaining parent budget
func ForDial(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Dial)
}

// ForRead returns a sub context for one file download bounded by Read
// and any remaining parent budget
func ForRead(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Read)
}

// ForDB returns a sub context for a persistence step bounded by DB and
// any remaining parent budget
func ForDB(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.DB)
}

// Remaining returns the time until the deadline on ctx or zero when
// none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		d := time.Until(dl)
		if d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout chooses the tighter of the requested duration and
// any parent remainder. Never extends the parent deadline
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
