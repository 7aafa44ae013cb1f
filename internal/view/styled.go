package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/bitty/internal/pet"
)

// Palette is the set of colors for one zone.
type Palette struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
}

var palettes = map[pet.Zone]Palette{
	pet.Desert: {Primary: lipgloss.Color("#d4a373"), Accent: lipgloss.Color("#e63946"), Muted: lipgloss.Color("#8d7b68")},
	pet.Forest: {Primary: lipgloss.Color("#588157"), Accent: lipgloss.Color("#d62828"), Muted: lipgloss.Color("#a3b18a")},
	pet.Ocean:  {Primary: lipgloss.Color("#0077b6"), Accent: lipgloss.Color("#ef476f"), Muted: lipgloss.Color("#90e0ef")},
}

// PaletteFor returns the palette of z, falling back to the default zone.
func PaletteFor(z pet.Zone) Palette {
	if p, ok := palettes[z]; ok {
		return p
	}
	return palettes[pet.DefaultZone]
}

// Styles holds the lipgloss styles for one palette.
type Styles struct {
	Card        lipgloss.Style
	Title       lipgloss.Style
	Label       lipgloss.Style
	FilledHeart lipgloss.Style
	EmptyHeart  lipgloss.Style
	Creature    lipgloss.Style
	Help        lipgloss.Style
}

// NewStyles builds the styles for palette p.
func NewStyles(p Palette) Styles {
	return Styles{
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(p.Muted).
			Width(11),

		FilledHeart: lipgloss.NewStyle().
			Foreground(p.Accent),

		EmptyHeart: lipgloss.NewStyle().
			Foreground(p.Muted),

		Creature: lipgloss.NewStyle().
			Foreground(p.Primary).
			MarginTop(1),

		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
	}
}

// Styled renders s in a bordered card using its zone's palette.
// help is appended under the card when non-empty.
func Styled(s pet.Snapshot, help string) string {
	st := NewStyles(PaletteFor(s.Zone))
	filled, empty := Hearts(s.Happiness)

	hearts := st.FilledHeart.Render(strings.Repeat(FilledHeart, filled)) +
		st.EmptyHeart.Render(strings.Repeat(EmptyHeart, empty))

	body := lipgloss.JoinVertical(lipgloss.Left,
		st.Title.Render(title),
		lipgloss.JoinHorizontal(lipgloss.Top,
			st.Label.Render("Happiness"),
			hearts,
			fmt.Sprintf("  %d/%d", s.Happiness, pet.MaxHappiness),
		),
		lipgloss.JoinHorizontal(lipgloss.Top,
			st.Label.Render("Zone"),
			s.Zone.Title(),
		),
		st.Creature.Render(strings.Join(Creature(s.Zone), "\n")),
	)

	out := st.Card.Render(body)
	if help != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, st.Help.Render(help))
	}
	return out
}
