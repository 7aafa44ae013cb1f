// Package view renders pet state for the terminal.
//
// The happiness row always has MaxHappiness hearts: Happiness filled ones
// followed by the rest empty. The zone picks the creature and the palette.
package view

import (
	"fmt"
	"strings"

	"github.com/roach88/bitty/internal/pet"
)

const (
	FilledHeart = "♥"
	EmptyHeart  = "♡"
)

const title = "Itty Bitty Creatures"

var creatures = map[pet.Zone][]string{
	pet.Desert: {
		`   /\_/\`,
		`  ( -.- )  ~`,
		`   /   \`,
	},
	pet.Forest: {
		`   (\_/)`,
		`  ( o.o )`,
		`  (")(")`,
	},
	pet.Ocean: {
		`    ><(((°>`,
		`  ~~~~~~~~~~`,
		`   °  o  °`,
	},
}

// Hearts splits the row into filled and empty counts.
// Out-of-range input is clamped so the row width never changes.
func Hearts(happiness int) (filled, empty int) {
	filled = pet.Clamp(happiness, pet.MinHappiness, pet.MaxHappiness)
	return filled, pet.MaxHappiness - filled
}

// HeartRow returns the heart icons for happiness.
func HeartRow(happiness int) string {
	filled, empty := Hearts(happiness)
	return strings.Repeat(FilledHeart, filled) + strings.Repeat(EmptyHeart, empty)
}

// Creature returns the creature art for z, one string per line.
// Unknown zones get the default zone's creature.
func Creature(z pet.Zone) []string {
	if art, ok := creatures[z]; ok {
		return art
	}
	return creatures[pet.DefaultZone]
}

// Plain renders s without styling.
func Plain(s pet.Snapshot) string {
	var b strings.Builder
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Happiness  %s  %d/%d\n", HeartRow(s.Happiness), s.Happiness, pet.MaxHappiness)
	fmt.Fprintf(&b, "Zone       %s\n", s.Zone.Title())
	fmt.Fprintln(&b)
	for _, line := range Creature(s.Zone) {
		fmt.Fprintln(&b, line)
	}
	return b.String()
}
