package pet

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Zone is where the creature lives. It also selects the theme palette.
type Zone string

const (
	Desert Zone = "desert"
	Forest Zone = "forest"
	Ocean  Zone = "ocean"
)

// DefaultZone is used when no zone has been persisted.
const DefaultZone = Desert

// ErrUnknownZone is returned for a tag outside the zone enumeration.
var ErrUnknownZone = errors.New("unknown zone")

// Zones returns every zone in display order.
func Zones() []Zone {
	return []Zone{Forest, Desert, Ocean}
}

// Valid reports whether z is a member of the enumeration.
func (z Zone) Valid() bool {
	switch z {
	case Desert, Forest, Ocean:
		return true
	}
	return false
}

// Title returns the display name, e.g. "Ocean".
func (z Zone) Title() string {
	return cases.Title(language.English).String(string(z))
}

func (z Zone) String() string {
	return string(z)
}

// ParseZone normalizes s (surrounding space, Unicode NFC, case) and
// returns the matching zone.
func ParseZone(s string) (Zone, error) {
	// Casers are stateful, so one is built per call.
	tag := cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
	z := Zone(tag)
	if !z.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownZone, s)
	}
	return z, nil
}
