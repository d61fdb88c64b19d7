package db

import (
	"context"
	"errors"
	"fmt"
)

// ErrRunInProgress is returned by WithRunLock when another session holds the
// lock for the same name.
var ErrRunInProgress = errors.New("run already in progress")

// WithRunLock runs fn while holding a session-level Postgres advisory lock
// keyed by name. Overlapping callers, in this process or another, get
// ErrRunInProgress instead of waiting.
func (p *Pool) WithRunLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire lock connection: %w", err)
	}
	defer conn.Release()

	var locked bool
	if err := conn.QueryRow(ctx, "try_run_lock", name).Scan(&locked); err != nil {
		return fmt.Errorf("try advisory lock %q: %w", name, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrRunInProgress, name)
	}
	defer func() {
		// Unlock on a fresh context so a cancelled run still releases the lock.
		var released bool
		if err := conn.QueryRow(context.WithoutCancel(ctx), "run_unlock", name).Scan(&released); err != nil || !released {
			// Closing the session drops any advisory lock it still holds.
			_ = conn.Conn().Close(context.WithoutCancel(ctx))
		}
	}()

	return fn(ctx)
}
