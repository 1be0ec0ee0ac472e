// Package aggregate is the service facade over the per-entity stores.
//
// Every mutation is a read-modify-write: the current record is loaded,
// changed through the membership and ledger rules, and written back conditionally on the version it was read
// at. A lost race surfaces from the store as storage.ErrConflict and the
// whole sequence is retried with exponential backoff. Contributions also
// hold a per-item lock so concurrent funders queue instead of spinning.
//
// Deletes follow the same pattern and additionally hold the lock of the
// record they remove. Writes that point an item at a circle or event hold
// that circle's or event's lock, so a delete never misses an item attached
// while it was checking.
//
// Errors returned from this package wrap one of ErrNotFound, ErrValidation,
// ErrAlreadyExists, ErrTransient, ledger.ErrInvalidAmount or
// ledger.ErrItemClosed.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mmynk/giftcircle/internal/ledger"
	"github.com/mmynk/giftcircle/internal/lock"
	"github.com/mmynk/giftcircle/internal/storage"
)

var (
	// ErrNotFound is storage.ErrNotFound so callers can test either.
	ErrNotFound = storage.ErrNotFound

	ErrValidation    = errors.New("validation failed")
	ErrAlreadyExists = errors.New("already exists")

	// ErrTransient means the operation gave up after repeated version
	// conflicts, store timeouts or a lock it could not obtain. Nothing was
	// written and the caller may retry.
	ErrTransient = errors.New("temporarily unavailable")
)

const (
	DefaultTimeout    = 5 * time.Second
	DefaultMaxRetries = 5
)

// Facade groups the per-entity services.
type Facade struct {
	Circles  *Circles
	Events   *Events
	Wishlist *Wishlist
	Users    *Users
}

// Option configures a Facade.
type Option func(*options)

type options struct {
	timeout    time.Duration
	maxRetries int
	locker     lock.Locker
	ledger     *ledger.Ledger
	newBackOff func() backoff.BackOff
	notify     backoff.Notify
}

// WithTimeout bounds every individual store call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMaxRetries sets how many times a conflicting write is retried.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.maxRetries = n }
}

// WithLocker replaces the in-process record lock.
func WithLocker(l lock.Locker) Option {
	return func(o *options) { o.locker = l }
}

// WithLedger replaces the default ledger.
func WithLedger(l *ledger.Ledger) Option {
	return func(o *options) { o.ledger = l }
}

// WithBackOff sets the retry schedule. newBackOff is called once per
// operation.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(o *options) { o.newBackOff = newBackOff }
}

// WithRetryNotify registers a callback invoked before each retry.
func WithRetryNotify(n backoff.Notify) Option {
	return func(o *options) { o.notify = n }
}

// New creates a Facade over store.
func New(store storage.Store, opts ...Option) *Facade {
	o := options{
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 10 * time.Millisecond
			b.MaxInterval = 500 * time.Millisecond
			return b
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.locker == nil {
		o.locker = lock.NewKeyedMutex()
	}
	if o.ledger == nil {
		o.ledger = ledger.New()
	}

	r := &runner{
		timeout:    o.timeout,
		maxRetries: o.maxRetries,
		newBackOff: o.newBackOff,
		notify:     o.notify,
		locker:     o.locker,
	}
	return &Facade{
		Circles:  &Circles{store: store, run: r},
		Events:   &Events{store: store, run: r},
		Wishlist: &Wishlist{store: store, run: r, ledger: o.ledger},
		Users:    &Users{store: store, run: r},
	}
}

// runner applies the store timeout, the conflict retry policy and the
// record locks.
type runner struct {
	timeout    time.Duration
	maxRetries int
	newBackOff func() backoff.BackOff
	notify     backoff.Notify
	locker     lock.Locker
}

// lock acquires every non-empty key in sorted order, each under the store
// timeout. The returned func releases them all.
func (r *runner) lock(ctx context.Context, keys ...string) (func(), error) {
	keys = slices.DeleteFunc(slices.Clone(keys), func(k string) bool { return k == "" })
	slices.Sort(keys)
	keys = slices.Compact(keys)

	unlocks := make([]func(), 0, len(keys))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, key := range keys {
		lockCtx, cancel := context.WithTimeout(ctx, r.timeout)
		unlock, err := r.locker.Lock(lockCtx, key)
		cancel()
		if err != nil {
			release()
			return nil, fmt.Errorf("%w: failed to lock %s: %w", ErrTransient, key, err)
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

func itemKey(id string) string { return lockKey("wishlist", id) }

func circleKey(id string) string { return lockKey("circle", id) }

func eventKey(id string) string { return lockKey("event", id) }

func lockKey(kind, id string) string {
	if id == "" {
		return ""
	}
	return kind + ":" + id
}

// do runs a single store call under the store timeout.
func (r *runner) do(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return transient(fn(ctx))
}

// mutate runs fn until it succeeds, fails permanently or runs out of
// retries. fn must reload whatever it modifies on every call.
func (r *runner) mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	op := func() (struct{}, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		err := fn(attemptCtx)
		if err != nil && (!retryable(err) || ctx.Err() != nil) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(r.newBackOff()),
		backoff.WithMaxTries(uint(r.maxRetries + 1)),
	}
	if r.notify != nil {
		opts = append(opts, backoff.WithNotify(r.notify))
	}
	_, err := backoff.Retry(ctx, op, opts...)
	// Retry hands back the wrapper itself when the last allowed try fails
	// permanently.
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return transient(err)
}

func retryable(err error) bool {
	return errors.Is(err, storage.ErrConflict) || errors.Is(err, context.DeadlineExceeded)
}

// transient marks retryable failures with ErrTransient.
func transient(err error) error {
	if err == nil || errors.Is(err, ErrTransient) || !retryable(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
