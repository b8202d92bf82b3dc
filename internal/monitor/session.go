// Package monitor drives the timer-based polling of one optimizer log.
package monitor

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/rhaversen/diecup-analytics/internal/optlog"
)

// Snapshot is the read-only view handed to consumers after every poll.
type Snapshot struct {
	Path    string
	Records []optlog.Record
	Rolling optlog.Rolling
	New     bool // at least one record was added by this poll
	At      time.Time
}

// UpdateFunc receives a snapshot after each poll. It runs on the session
// goroutine, so it must hand off to other goroutines rather than block.
type UpdateFunc func(Snapshot)

// Session polls a single log file on a fixed interval. Tailer access is
// confined to the session goroutine; no locking is needed.
type Session struct {
	tailer   *optlog.Tailer
	interval time.Duration
	onUpdate UpdateFunc
	clock    quartz.Clock
	logger   zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithClock substitutes the clock, for tests.
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a session polling tailer every interval, delivering a
// snapshot to onUpdate after each poll.
func NewSession(tailer *optlog.Tailer, interval time.Duration, onUpdate UpdateFunc, opts ...Option) *Session {
	s := &Session{
		tailer:   tailer,
		interval: interval,
		onUpdate: onUpdate,
		clock:    quartz.NewReal(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run polls immediately, then on every tick until ctx is cancelled. On
// shutdown any buffered partial state is flushed so a final improvement at
// the very end of the log is not lost. Cancellation is a normal stop, not
// an error.
func (s *Session) Run(ctx context.Context) error {
	s.poll()

	waiter := s.clock.TickerFunc(ctx, s.interval, func() error {
		s.poll()
		return nil
	}, "monitor")

	err := waiter.Wait()

	if found := s.tailer.Flush(); found {
		s.notify(true)
	}

	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Session) poll() {
	found, err := s.tailer.Poll()
	if err != nil {
		// Non-fatal: the file may be mid-rotation. Retried next tick.
		s.logger.Warn().Err(err).Str("log", s.tailer.Path()).Msg("poll failed")
	}
	s.notify(found)
}

func (s *Session) notify(found bool) {
	if s.onUpdate == nil {
		return
	}
	s.onUpdate(Snapshot{
		Path:    s.tailer.Path(),
		Records: s.tailer.Records(),
		Rolling: s.tailer.Rolling(),
		New:     found,
		At:      s.clock.Now(),
	})
}
