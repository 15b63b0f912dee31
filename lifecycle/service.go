package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Clock returns the current time. Services call it once per attempt.
type Clock func() time.Time

// Deps wires a service to its collaborators.
type Deps struct {
	Store  Store
	Locker Locker
	Clock  Clock
	Logger *zap.Logger
	Retry  []RetryOption
}

// runner is the unit-of-work plumbing shared by the three controllers.
type runner struct {
	store   Store
	locks   Locker
	arbiter *Arbiter
	now     Clock
	retry   []RetryOption
	log     *zap.Logger
}

func newRunner(d Deps, name string) runner {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named(name)
	now := d.Clock
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	locks := d.Locker
	if locks == nil {
		locks = noLock{}
	}
	return runner{
		store:   d.Store,
		locks:   locks,
		arbiter: &Arbiter{log: log},
		now:     now,
		retry:   d.Retry,
		log:     log,
	}
}

func assetLockKey(assetID string) string { return "asset:" + assetID }

// withAsset serializes fn against other writers of the same asset and runs
// it in a fresh transaction until it stops losing version races.
func (r runner) withAsset(ctx context.Context, assetID string, fn func(tx Tx) error) error {
	unlock, err := r.locks.Lock(ctx, assetLockKey(assetID))
	if err != nil {
		return fmt.Errorf("lock asset %s: %w", assetID, err)
	}
	defer unlock()

	opts := append([]RetryOption{withRetryHook(func(attempt int, err error) {
		r.log.Warn("asset version conflict, retrying",
			zap.String("asset_id", assetID), zap.Int("attempt", attempt), zap.Error(err))
	})}, r.retry...)

	err = retryOnStale(ctx, func(ctx context.Context) error {
		return r.store.InTx(ctx, fn)
	}, opts...)
	if errors.Is(err, ErrStaleVersion) {
		r.log.Error("giving up on asset write", zap.String("asset_id", assetID), zap.Error(err))
		return ErrStaleAssetVersion
	}
	return err
}

// view runs a read-only fn.
func (r runner) view(ctx context.Context, fn func(tx Tx) error) error {
	return r.store.View(ctx, fn)
}

// notFound maps a Tx miss onto the domain error for the entity.
func notFound(err error, domain *Error, id string) error {
	if errors.Is(err, ErrNoRecord) {
		return fmt.Errorf("%w: %s", domain, id)
	}
	return err
}

type noLock struct{}

func (noLock) Lock(context.Context, string) (func(), error) { return func() {}, nil }
