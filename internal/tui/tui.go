// Package tui is the interactive terminal pet, built on Bubble Tea.
//
// The decay ticker runs for exactly as long as the program does: it is
// started before the first frame and stopped when the program exits.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/bitty/internal/decay"
	"github.com/roach88/bitty/internal/pet"
	"github.com/roach88/bitty/internal/view"
)

// meterWidth is the width of the happiness bar in cells.
const meterWidth = 24

// SnapshotMsg tells the model the pet changed outside of Update
// (a decay tick).
type SnapshotMsg struct{}

// keyMap binds keys to pet actions. Zones is parallel to pet.Zones().
type keyMap struct {
	Feed  key.Binding
	Play  key.Binding
	Zones []key.Binding
	Quit  key.Binding
}

func newKeyMap() keyMap {
	km := keyMap{
		Feed: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "feed")),
		Play: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for i, z := range pet.Zones() {
		k := strconv.Itoa(i + 1)
		km.Zones = append(km.Zones, key.NewBinding(key.WithKeys(k), key.WithHelp(k, string(z))))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Feed, k.Play}
	bindings = append(bindings, k.Zones...)
	return append(bindings, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Feed, k.Play}, k.Zones, {k.Quit}}
}

// Model is the Bubble Tea model for the pet screen.
type Model struct {
	ctx   context.Context
	pet   *pet.Pet
	snap  pet.Snapshot
	keys  keyMap
	help  help.Model
	meter progress.Model
}

// NewModel creates a model showing p.
func NewModel(ctx context.Context, p *pet.Pet) Model {
	snap := p.Snapshot()
	return Model{
		ctx:   ctx,
		pet:   p,
		snap:  snap,
		keys:  newKeyMap(),
		help:  help.New(),
		meter: newMeter(snap.Zone),
	}
}

// newMeter builds the happiness bar in the zone's primary color.
func newMeter(z pet.Zone) progress.Model {
	return progress.New(
		progress.WithSolidFill(string(view.PaletteFor(z).Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(meterWidth),
	)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Feed):
			m.pet.Feed(m.ctx)
		case key.Matches(msg, m.keys.Play):
			m.pet.Play(m.ctx)
		default:
			for i, b := range m.keys.Zones {
				if key.Matches(msg, b) {
					// Zones() only yields valid members.
					_ = m.pet.Select(m.ctx, pet.Zones()[i])
				}
			}
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case SnapshotMsg:
	}

	// Always re-read: snapshot messages may arrive out of order.
	prev := m.snap.Zone
	m.snap = m.pet.Snapshot()
	if m.snap.Zone != prev {
		m.meter = newMeter(m.snap.Zone)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	bar := m.meter.ViewAs(float64(m.snap.Happiness) / pet.MaxHappiness)
	return lipgloss.JoinVertical(lipgloss.Left,
		view.Styled(m.snap, ""),
		" "+bar,
		m.help.View(m.keys),
	) + "\n"
}

// Snapshot returns the state the model last rendered.
func (m Model) Snapshot() pet.Snapshot {
	return m.snap
}

// Options configures Run.
type Options struct {
	Interval       time.Duration
	Clock          decay.Clock
	Logger         *slog.Logger
	ProgramOptions []tea.ProgramOption
}

// Run shows the pet until the user quits or ctx ends.
// Cancellation of ctx is a normal exit, not an error.
func Run(ctx context.Context, p *pet.Pet, opts Options) error {
	if opts.Interval == 0 {
		opts.Interval = decay.DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	programOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, opts.ProgramOptions...)
	prog := tea.NewProgram(NewModel(ctx, p), programOpts...)

	// Send blocks until the event loop receives, and Update itself mutates
	// the pet, so notifications are delivered from their own goroutine.
	unsubscribe := p.Subscribe(func(pet.Snapshot) {
		go prog.Send(SnapshotMsg{})
	})
	defer unsubscribe()

	tickerOpts := []decay.Option{decay.WithLogger(opts.Logger)}
	if opts.Clock != nil {
		tickerOpts = append(tickerOpts, decay.WithClock(opts.Clock))
	}
	tk, err := decay.Start(ctx, opts.Interval, func(ctx context.Context) {
		p.Decay(ctx)
	}, tickerOpts...)
	if err != nil {
		return err
	}
	defer tk.Stop()

	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
