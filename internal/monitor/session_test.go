package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhaversen/diecup-analytics/internal/optlog"
)

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestSessionPollsOnTicks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "genetic_optimizer_live.txt")
	appendLog(t, path, "Gen 1 - Fit: 20.0 (mean=22.0, var=4.0)\n*** BASELINE\n  Weight = 1.0\n")

	mock := quartz.NewMock(t)
	trap := mock.Trap().TickerFunc("monitor")
	defer trap.Close()

	snapshots := make(chan Snapshot, 16)
	tailer := optlog.NewTailer(path, zerolog.Nop())
	session := NewSession(tailer, 2*time.Second, func(s Snapshot) { snapshots <- s },
		WithClock(mock), WithLogger(zerolog.Nop()))

	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	// Initial poll happens before the ticker starts.
	first := <-snapshots
	assert.True(t, first.New)
	require.Len(t, first.Records, 1)
	assert.Equal(t, 1, first.Rolling.Generation)

	trap.MustWait(ctx).MustRelease(ctx)

	// A tick with nothing appended reports no new records.
	mock.Advance(2 * time.Second).MustWait(ctx)
	second := <-snapshots
	assert.False(t, second.New)
	assert.Len(t, second.Records, 1)

	// Appended improvement is picked up on the next tick.
	appendLog(t, path, "Gen 4 - Fit: 15.0 (mean=17.0, var=3.0)\n*** NEW BEST\n  Weight = 1.4\n")
	mock.Advance(2 * time.Second).MustWait(ctx)
	third := <-snapshots
	assert.True(t, third.New)
	require.Len(t, third.Records, 2)
	assert.Equal(t, 4, third.Records[1].Generation)

	cancel()
	require.NoError(t, <-done)
}

func TestSessionFlushesOnShutdown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "genetic_optimizer_live.txt")
	// No trailing newline: the parameter line stays buffered until Flush.
	appendLog(t, path, "Gen 2 - Fit: 12.0 (mean=14.0, var=2.0)\n*** IMPROVEMENT\n  Weight = 2.0")

	mock := quartz.NewMock(t)
	trap := mock.Trap().TickerFunc("monitor")
	defer trap.Close()

	snapshots := make(chan Snapshot, 16)
	tailer := optlog.NewTailer(path, zerolog.Nop())
	session := NewSession(tailer, 2*time.Second, func(s Snapshot) { snapshots <- s }, WithClock(mock))

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- session.Run(runCtx) }()

	first := <-snapshots
	assert.False(t, first.New)
	assert.Empty(t, first.Records)

	trap.MustWait(ctx).MustRelease(ctx)

	stop()
	require.NoError(t, <-done)

	// The shutdown flush promoted the buffered improvement to a record.
	var last Snapshot
	for {
		select {
		case s := <-snapshots:
			last = s
			continue
		default:
		}
		break
	}
	assert.True(t, last.New)
	require.Len(t, last.Records, 1)
	assert.Equal(t, map[string]float64{"Weight": 2.0}, last.Records[0].Params)
}

func TestSessionSurvivesMissingFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "not_yet_written.txt")

	mock := quartz.NewMock(t)
	trap := mock.Trap().TickerFunc("monitor")
	defer trap.Close()

	snapshots := make(chan Snapshot, 16)
	session := NewSession(optlog.NewTailer(path, zerolog.Nop()), time.Second,
		func(s Snapshot) { snapshots <- s }, WithClock(mock))

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- session.Run(runCtx) }()

	first := <-snapshots
	assert.False(t, first.New)

	trap.MustWait(ctx).MustRelease(ctx)

	// The file appears later; monitoring picks it up without restart.
	appendLog(t, path, "Gen 1 - Fit: 9.0 (mean=10.0, var=1.0)\n*** NEW BEST\n  Weight = 0.5\n")
	mock.Advance(time.Second).MustWait(ctx)
	second := <-snapshots
	assert.True(t, second.New)
	require.Len(t, second.Records, 1)

	stop()
	require.NoError(t, <-done)
}
