package cell

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

// ByteStore is the durable key-value store a Cell persists to.
// internal/store.Store satisfies it.
type ByteStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// errAbsent marks a key that has never been written.
var errAbsent = errors.New("absent")

// Cell holds one persisted value.
//
// Thread-safety: Cell is safe for concurrent use. Subscribers are called
// outside the internal lock, in registration order.
type Cell[T any] struct {
	key   string
	store ByteStore
	codec Codec[T]

	mu    sync.Mutex
	value T

	subMu  sync.Mutex
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Option configures Load.
type Option[T any] func(*loadOptions[T])

type loadOptions[T any] struct {
	normalize func(T) T
	logger    *slog.Logger
}

// WithNormalize applies fn to a successfully decoded value before it is
// adopted. Defaults are not normalized.
func WithNormalize[T any](fn func(T) T) Option[T] {
	return func(o *loadOptions[T]) { o.normalize = fn }
}

// WithLogger sets the logger used to report fallbacks at debug level.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(o *loadOptions[T]) { o.logger = logger }
}

// Load reads key from st and returns a Cell holding the decoded value,
// or def when the key is absent or its value cannot be read or decoded.
func Load[T any](ctx context.Context, st ByteStore, key string, codec Codec[T], def T, opts ...Option[T]) *Cell[T] {
	o := loadOptions[T]{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	v, err := read(ctx, st, key, codec)
	if err == nil && o.normalize != nil {
		v = o.normalize(v)
	}
	if err != nil && !errors.Is(err, errAbsent) {
		o.logger.Debug("stored value unusable, using default", "key", key, "error", err)
	}

	return &Cell[T]{
		key:   key,
		store: st,
		codec: codec,
		value: OrDefault(v, err, def),
	}
}

// OrDefault returns v when err is nil and def otherwise.
func OrDefault[T any](v T, err error, def T) T {
	if err != nil {
		return def
	}
	return v
}

// read fetches and decodes key. Absence is reported as errAbsent.
func read[T any](ctx context.Context, st ByteStore, key string, codec Codec[T]) (T, error) {
	var zero T
	data, ok, err := st.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, errAbsent
	}
	return codec.Decode(data)
}

// Key returns the store key this cell is bound to.
func (c *Cell[T]) Key() string {
	return c.key
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the value and persists it.
//
// The in-memory value is updated even when persisting fails, so the running
// session keeps the new value; the returned error reports the failed write.
// Subscribers are notified in both cases.
func (c *Cell[T]) Set(ctx context.Context, v T) error {
	c.mu.Lock()
	c.value = v
	err := c.persist(ctx, v)
	c.mu.Unlock()

	c.notify(v)
	return err
}

// Update applies fn to the current value and stores the result atomically
// with respect to other Set and Update calls. It returns the stored value.
func (c *Cell[T]) Update(ctx context.Context, fn func(T) T) (T, error) {
	c.mu.Lock()
	v := fn(c.value)
	c.value = v
	err := c.persist(ctx, v)
	c.mu.Unlock()

	c.notify(v)
	return v, err
}

func (c *Cell[T]) persist(ctx context.Context, v T) error {
	data, err := c.codec.Encode(v)
	if err != nil {
		return err
	}
	return c.store.Put(ctx, c.key, data)
}

// Subscribe registers fn to be called with every new value.
// The returned function removes the subscription and is safe to call
// more than once.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.subMu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			defer c.subMu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *Cell[T]) notify(v T) {
	c.subMu.Lock()
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}
