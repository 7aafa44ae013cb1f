package pet

import (
	"context"
	"math"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitty/internal/store"
)

func openTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bitty.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, path
}

// reload simulates a restart: a fresh store handle and a fresh Pet.
func reload(t *testing.T, path string) *Pet {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return Load(context.Background(), st)
}

func seed(t *testing.T, st *store.Store, key, raw string) {
	t.Helper()
	require.NoError(t, st.Put(context.Background(), key, []byte(raw)))
}

func TestLoad_FreshSessionDefaults(t *testing.T) {
	st, _ := openTestStore(t)

	p := Load(context.Background(), st)

	assert.Equal(t, 5, p.Happiness())
	assert.Equal(t, Desert, p.Zone())
	assert.Equal(t, Snapshot{Happiness: 5, Zone: Desert}, p.Snapshot())
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	st, _ := openTestStore(t)
	seed(t, st, HappinessKey, "lots")
	seed(t, st, ZoneKey, `"volcano"`)

	p := Load(context.Background(), st)

	assert.Equal(t, DefaultHappiness, p.Happiness())
	assert.Equal(t, DefaultZone, p.Zone())
}

func TestLoad_KeysAreIndependent(t *testing.T) {
	t.Run("corrupt zone", func(t *testing.T) {
		st, _ := openTestStore(t)
		seed(t, st, HappinessKey, "2")
		seed(t, st, ZoneKey, "{{{")

		p := Load(context.Background(), st)
		assert.Equal(t, 2, p.Happiness())
		assert.Equal(t, Desert, p.Zone())
	})

	t.Run("corrupt happiness", func(t *testing.T) {
		st, _ := openTestStore(t)
		seed(t, st, HappinessKey, "NaN")
		seed(t, st, ZoneKey, `"forest"`)

		p := Load(context.Background(), st)
		assert.Equal(t, 5, p.Happiness())
		assert.Equal(t, Forest, p.Zone())
	})
}

func TestLoad_OutOfRangeStoredValueIsClamped(t *testing.T) {
	st, _ := openTestStore(t)
	seed(t, st, HappinessKey, "42")
	p := Load(context.Background(), st)
	assert.Equal(t, 10, p.Happiness())

	seed(t, st, HappinessKey, "-3")
	p = Load(context.Background(), st)
	assert.Equal(t, 0, p.Happiness())
}

func TestAdjust_AlwaysInRange(t *testing.T) {
	deltas := []int{math.MinInt, -1000, -11, -10, -6, -1, 0, 1, 4, 10, 11, 1000, math.MaxInt}
	ctx := context.Background()

	for h := MinHappiness; h <= MaxHappiness; h++ {
		for _, d := range deltas {
			st, err := store.Open(":memory:")
			require.NoError(t, err)
			seed(t, st, HappinessKey, strconv.Itoa(h))
			p := Load(ctx, st)

			got := p.Adjust(ctx, d)

			assert.GreaterOrEqual(t, got, MinHappiness, "h=%d d=%d", h, d)
			assert.LessOrEqual(t, got, MaxHappiness, "h=%d d=%d", h, d)
			assert.Equal(t, got, p.Happiness())
			st.Close()
		}
	}
}

func TestAdjust_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		delta  int
		repeat int
		want   int
	}{
		{"feed three times from five", 5, 1, 3, 8},
		{"decay past zero", 1, -1, 2, 0},
		{"feed past ten", 9, 1, 5, 10},
		{"sticky at zero", 0, -1, 5, 0},
		{"sticky at ten", 10, 1, 5, 10},
		{"zero delta", 7, 0, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, _ := openTestStore(t)
			seed(t, st, HappinessKey, strconv.Itoa(tt.start))
			p := Load(context.Background(), st)

			for i := 0; i < tt.repeat; i++ {
				p.Adjust(context.Background(), tt.delta)
			}

			assert.Equal(t, tt.want, p.Happiness())
		})
	}
}

func TestFeedAndPlay_SameEffect(t *testing.T) {
	st, _ := openTestStore(t)
	p := Load(context.Background(), st)

	assert.Equal(t, 6, p.Feed(context.Background()))
	assert.Equal(t, 7, p.Play(context.Background()))
	assert.Equal(t, 6, p.Decay(context.Background()))
}

func TestAdjust_PersistsAcrossReload(t *testing.T) {
	st, path := openTestStore(t)
	p := Load(context.Background(), st)

	p.Adjust(context.Background(), 3)

	assert.Equal(t, 8, reload(t, path).Happiness())
}

func TestSelect_PersistsAcrossReload(t *testing.T) {
	for _, z := range Zones() {
		t.Run(string(z), func(t *testing.T) {
			st, path := openTestStore(t)
			p := Load(context.Background(), st)

			require.NoError(t, p.Select(context.Background(), z))

			assert.Equal(t, z, reload(t, path).Zone())
		})
	}
}

func TestSelect_UnknownZoneLeavesState(t *testing.T) {
	st, _ := openTestStore(t)
	p := Load(context.Background(), st)
	require.NoError(t, p.Select(context.Background(), Ocean))

	err := p.Select(context.Background(), Zone("volcano"))

	assert.ErrorIs(t, err, ErrUnknownZone)
	assert.Equal(t, Ocean, p.Zone())
}

func TestSelectName_Normalizes(t *testing.T) {
	st, _ := openTestStore(t)
	p := Load(context.Background(), st)

	z, err := p.SelectName(context.Background(), "  FOREST ")
	require.NoError(t, err)
	assert.Equal(t, Forest, z)
	assert.Equal(t, Forest, p.Zone())

	_, err = p.SelectName(context.Background(), "moon")
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	st, _ := openTestStore(t)
	p := Load(context.Background(), st)

	var got []Snapshot
	unsubscribe := p.Subscribe(func(s Snapshot) { got = append(got, s) })

	p.Feed(context.Background())
	require.NoError(t, p.Select(context.Background(), Ocean))
	unsubscribe()
	p.Feed(context.Background())

	assert.Equal(t, []Snapshot{
		{Happiness: 6, Zone: Desert},
		{Happiness: 6, Zone: Ocean},
	}, got)
}

func TestJournal_RecordsMutations(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	p := Load(ctx, st, WithJournal(st, "session-1"))

	p.Feed(ctx)
	p.Play(ctx)
	p.Decay(ctx)
	p.Adjust(ctx, -20)
	require.NoError(t, p.Select(ctx, Forest))

	entries, err := st.ReadJournal(ctx, "session-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// newest first
	assert.Equal(t, "select", entries[0].Action)
	assert.Equal(t, "forest", entries[0].Zone)
	assert.Equal(t, 0, entries[0].Happiness)
	assert.Equal(t, "adjust", entries[1].Action)
	assert.Equal(t, -20, entries[1].Delta)
	assert.Equal(t, "decay", entries[2].Action)
	assert.Equal(t, 6, entries[2].Happiness)
	assert.Equal(t, "play", entries[3].Action)
	assert.Equal(t, "feed", entries[4].Action)
}

func TestAdjust_ClosedStoreFailsSoft(t *testing.T) {
	st, _ := openTestStore(t)
	p := Load(context.Background(), st, WithJournal(st, "s"))
	require.NoError(t, st.Close())

	assert.Equal(t, 6, p.Feed(context.Background()))
	assert.NoError(t, p.Select(context.Background(), Ocean))
	assert.Equal(t, Ocean, p.Zone())
}

func TestLoad_NullStoredValuesFallBack(t *testing.T) {
	st, path := openTestStore(t)
	seed(t, st, HappinessKey, "null")
	seed(t, st, ZoneKey, "null")

	p := reload(t, path)
	assert.Equal(t, Snapshot{Happiness: DefaultHappiness, Zone: DefaultZone}, p.Snapshot())
}
