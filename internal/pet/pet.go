package pet

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/bitty/internal/cell"
	"github.com/roach88/bitty/internal/store"
)

// Store keys for the persisted values.
const (
	HappinessKey = "happiness"
	ZoneKey      = "zone"
)

// Action names recorded in the journal.
type Action string

const (
	ActionFeed   Action = "feed"
	ActionPlay   Action = "play"
	ActionAdjust Action = "adjust"
	ActionDecay  Action = "decay"
	ActionSelect Action = "select"
)

// Journal receives one entry per mutation. store.Store satisfies it.
type Journal interface {
	AppendJournal(ctx context.Context, e store.JournalEntry) (int64, error)
}

// Snapshot is the pet state at one instant.
type Snapshot struct {
	Happiness int  `json:"happiness"`
	Zone      Zone `json:"zone"`
}

// Pet is the happiness controller and zone selector over two persisted cells.
//
// Thread-safety: mutations are serialized, so a user action and a decay tick
// never interleave their read-modify-write.
type Pet struct {
	mu        sync.Mutex
	happiness *cell.Cell[int]
	zone      *cell.Cell[Zone]

	journal Journal
	session string
	logger  *slog.Logger
}

// Option configures Load.
type Option func(*Pet)

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pet) { p.logger = logger }
}

// WithJournal records every mutation to j, tagged with session.
func WithJournal(j Journal, session string) Option {
	return func(p *Pet) {
		p.journal = j
		p.session = session
	}
}

var zoneCodec = cell.Parsed[Zone, string]{
	Parse:  ParseZone,
	Format: Zone.String,
}

// Load reads the pet from st, falling back to defaults for any value that is
// missing or malformed. Loading again from the same store simulates a reload.
func Load(ctx context.Context, st cell.ByteStore, opts ...Option) *Pet {
	p := &Pet{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.happiness = cell.Load(ctx, st, HappinessKey, cell.JSON[int]{}, DefaultHappiness,
		cell.WithNormalize(clampHappiness),
		cell.WithLogger[int](p.logger),
	)
	p.zone = cell.Load(ctx, st, ZoneKey, cell.Codec[Zone](zoneCodec), DefaultZone,
		cell.WithLogger[Zone](p.logger),
	)

	p.logger.Debug("pet loaded", "happiness", p.happiness.Get(), "zone", p.zone.Get())
	return p
}

// Happiness returns the current happiness level.
func (p *Pet) Happiness() int {
	return p.happiness.Get()
}

// Zone returns the current zone.
func (p *Pet) Zone() Zone {
	return p.zone.Get()
}

// Snapshot returns both values.
func (p *Pet) Snapshot() Snapshot {
	return Snapshot{
		Happiness: p.happiness.Get(),
		Zone:      p.zone.Get(),
	}
}

// Adjust adds delta to happiness, clamps into [0, 10], persists, and
// returns the new level. Any delta is accepted.
func (p *Pet) Adjust(ctx context.Context, delta int) int {
	return p.adjust(ctx, ActionAdjust, delta)
}

// Feed raises happiness by one.
func (p *Pet) Feed(ctx context.Context) int {
	return p.adjust(ctx, ActionFeed, 1)
}

// Play raises happiness by one. Same effect as Feed.
func (p *Pet) Play(ctx context.Context) int {
	return p.adjust(ctx, ActionPlay, 1)
}

// Decay lowers happiness by one. Called by the decay ticker.
func (p *Pet) Decay(ctx context.Context) int {
	return p.adjust(ctx, ActionDecay, -1)
}

func (p *Pet) adjust(ctx context.Context, action Action, delta int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	v, err := p.happiness.Update(ctx, func(cur int) int {
		return AddClamped(cur, delta)
	})
	if err != nil {
		p.logger.Warn("failed to persist happiness", "action", action, "error", err)
	}
	p.logger.Debug("happiness adjusted", "action", action, "delta", delta, "happiness", v)

	p.record(ctx, action, delta, v, p.zone.Get())
	return v
}

// Select moves the creature to zone z.
// Returns ErrUnknownZone without changing state if z is not a member.
func (p *Pet) Select(ctx context.Context, z Zone) error {
	if !z.Valid() {
		return ErrUnknownZone
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.zone.Set(ctx, z); err != nil {
		p.logger.Warn("failed to persist zone", "zone", z, "error", err)
	}
	p.logger.Debug("zone selected", "zone", z)

	p.record(ctx, ActionSelect, 0, p.happiness.Get(), z)
	return nil
}

// SelectName parses name and selects the zone.
func (p *Pet) SelectName(ctx context.Context, name string) (Zone, error) {
	z, err := ParseZone(name)
	if err != nil {
		return "", err
	}
	return z, p.Select(ctx, z)
}

// Subscribe calls fn with a fresh snapshot after every mutation.
// The returned function is idempotent.
func (p *Pet) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	unsubHappiness := p.happiness.Subscribe(func(int) { fn(p.Snapshot()) })
	unsubZone := p.zone.Subscribe(func(Zone) { fn(p.Snapshot()) })
	return func() {
		unsubHappiness()
		unsubZone()
	}
}

// record appends to the journal. Failures are logged, never returned.
func (p *Pet) record(ctx context.Context, action Action, delta, happiness int, zone Zone) {
	if p.journal == nil {
		return
	}
	_, err := p.journal.AppendJournal(ctx, store.JournalEntry{
		Session:   p.session,
		Action:    string(action),
		Delta:     delta,
		Happiness: happiness,
		Zone:      string(zone),
	})
	if err != nil {
		p.logger.Warn("failed to append journal", "action", action, "error", err)
	}
}
