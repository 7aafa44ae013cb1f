package pet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseZone(t *testing.T) {
	tests := []struct {
		in   string
		want Zone
	}{
		{"desert", Desert},
		{"Forest", Forest},
		{" OCEAN\n", Ocean},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			z, err := ParseZone(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, z)
		})
	}
}

func TestParseZone_Unknown(t *testing.T) {
	for _, in := range []string{"", "tundra", "des ert"} {
		_, err := ParseZone(in)
		assert.ErrorIs(t, err, ErrUnknownZone, "input %q", in)
	}
}

func TestZone_Title(t *testing.T) {
	assert.Equal(t, "Desert", Desert.Title())
	assert.Equal(t, "Ocean", Ocean.Title())
}

func TestZones_DisplayOrder(t *testing.T) {
	assert.Equal(t, []Zone{Forest, Desert, Ocean}, Zones())
	for _, z := range Zones() {
		assert.True(t, z.Valid())
	}
	assert.False(t, Zone("").Valid())
}
