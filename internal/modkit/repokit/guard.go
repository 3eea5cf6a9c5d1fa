package repokit

import (
	"context"
	"fmt"
	"time"

	perr "shoof/internal/platform/errors"
)

// Guarder is satisfied by *store.Store
type Guarder interface {
	Guard(context.Context) error
}

// DefaultGuardTimeout bounds a startup guard when the caller sets no deadline
const DefaultGuardTimeout = 5 * time.Second

// Guard checks every backend a process opened before it starts work
// failures come back as Unavailable so callers can exit or retry on the code
func Guard(ctx context.Context, name string, g Guarder) error {
	if g == nil {
		return perr.Unavailablef("%s: nil dependency", name)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultGuardTimeout)
		defer cancel()
	}
	if err := g.Guard(ctx); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "%s: dependency guard failed", name)
	}
	return nil
}

// MustGuard is Guard for wiring code that cannot continue without its backends
func MustGuard(ctx context.Context, name string, g Guarder) {
	if err := Guard(ctx, name, g); err != nil {
		panic(fmt.Sprintf("%v", err))
	}
}
