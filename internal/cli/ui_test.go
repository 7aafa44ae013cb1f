package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitty/internal/testutil"
)

func TestUI_ExitsWhenContextEnds(t *testing.T) {
	clock := testutil.NewManualClock()
	rootOpts := &RootOptions{Sessions: testutil.NewFixedSessionGenerator(testSession)}

	cmd := newUICommand(&UIOptions{
		RootOptions: rootOpts,
		Clock:       clock,
		ProgramOptions: []tea.ProgramOption{
			tea.WithInput(nil),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
		},
	})
	rootOpts.Database = testDB(t)
	rootOpts.Format = "text"
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		for clock.Active() == 0 && ctx.Err() == nil {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Equal(t, 0, clock.Active(), "ticker stopped with the ui")
}
