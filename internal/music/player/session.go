package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"dinkbot/internal/music/queue"
	"dinkbot/internal/music/sources"
)

type eventKind int

const (
	evPlay eventKind = iota
	evStop
	evPause
	evResume
	evSkip
	evFinished
	evSnapshot
	evHold
	evRelease
)

type event struct {
	kind  eventKind
	track sources.Track
	conn  Connection
	gen   uint64
	err   error
	reply chan reply
}

type reply struct {
	result Result
	snap   Snapshot
	err    error
}

// session is the state machine of one guild. Every field below events is
// owned by the run goroutine.
type session struct {
	// joining serializes the connect step of concurrent Play calls. It is
	// held by callers, never by run.
	joining sync.Mutex

	guildID  string
	recorder Recorder
	events   chan event
	done     <-chan struct{}
	log      zerolog.Logger

	state   State
	conn    Connection
	current *sources.Track
	queue   *queue.Queue
	gen     uint64
	held    bool
}

func newSession(c *Controller, guildID string) *session {
	return &session{
		guildID:  guildID,
		recorder: c.recorder,
		events:   make(chan event),
		done:     c.done,
		log:      log.With().Str("component", "player").Str("guild", guildID).Logger(),
		state:    Idle,
		queue:    queue.New(c.queueLimit),
	}
}

func (s *session) run() {
	for {
		select {
		case ev := <-s.events:
			r := s.handle(ev)
			if ev.reply != nil {
				ev.reply <- r
			}
		case <-s.done:
			s.shutdown()
			return
		}
	}
}

// submit delivers ev to the loop and waits for its reply. Once accepted the
// event is applied even if ctx ends meanwhile.
func (s *session) submit(ctx context.Context, ev event) (reply, error) {
	ev.reply = make(chan reply, 1)
	select {
	case s.events <- ev:
	case <-ctx.Done():
		return reply{}, ctx.Err()
	case <-s.done:
		return reply{}, ErrClosed
	}

	select {
	case r := <-ev.reply:
		return r, nil
	case <-s.done:
		return reply{}, ErrClosed
	}
}

// notify delivers ev without waiting; used from streaming goroutines.
func (s *session) notify(ev event) {
	go func() {
		select {
		case s.events <- ev:
		case <-s.done:
		}
	}()
}

func (s *session) handle(ev event) reply {
	switch ev.kind {
	case evPlay:
		return s.play(ev)
	case evFinished:
		s.finished(ev)
	case evStop:
		s.stop()
	case evPause:
		s.pause()
	case evResume:
		s.resume()
	case evSkip:
		return reply{err: s.skip()}
	case evSnapshot:
		return reply{snap: s.snapshot()}
	case evHold:
		return reply{err: s.hold()}
	case evRelease:
		s.held = false
	}
	return reply{}
}

func (s *session) play(ev event) reply {
	r := s.enqueueOrStart(ev)
	if ev.conn != nil && ev.conn != s.conn {
		s.log.Info().Msg("dropping unused voice connection")
		if err := ev.conn.Disconnect(); err != nil {
			s.log.Warn().Err(err).Msg("disconnect failed")
		}
	}
	return r
}

func (s *session) enqueueOrStart(ev event) reply {
	if s.held {
		return reply{err: ErrOutputBusy}
	}

	if s.state != Idle {
		if err := s.queue.Enqueue(ev.track); err != nil {
			return reply{err: err}
		}
		s.log.Info().Str("title", ev.track.Display()).Int("queue_len", s.queue.Len()).Msg("track queued")
		return reply{result: Result{Outcome: Queued, Track: ev.track, Position: s.queue.Len()}}
	}

	if s.conn == nil {
		if ev.conn == nil {
			return reply{err: &ConnectionError{GuildID: s.guildID, Err: ErrNotConnected}}
		}
		s.conn = ev.conn
	}

	if err := s.start(ev.track); err != nil {
		return reply{err: err}
	}
	return reply{result: Result{Outcome: Started, Track: ev.track}}
}

// start streams t on the current connection and makes it current.
func (s *session) start(t sources.Track) error {
	s.gen++
	gen := s.gen
	err := s.conn.Play(t, func(err error) {
		s.notify(event{kind: evFinished, gen: gen, err: err})
	})
	if err != nil {
		return fmt.Errorf("failed to start %q: %w", t.Display(), err)
	}

	s.current = &t
	s.state = Playing
	s.log.Info().Str("title", t.Display()).Int("queue_len", s.queue.Len()).Msg("now playing")

	if s.recorder != nil {
		if err := s.recorder.RecordTrack(s.guildID, t); err != nil {
			s.log.Warn().Err(err).Msg("failed to record track")
		}
	}
	return nil
}

func (s *session) finished(ev event) {
	if ev.gen != s.gen || s.state == Idle {
		s.log.Debug().Uint64("gen", ev.gen).Msg("stale completion ignored")
		return
	}
	if ev.err != nil {
		s.log.Warn().Err(ev.err).Msg("stream ended with error")
	}
	if err := s.advance(); err != nil {
		s.log.Error().Err(err).Msg("advance failed, session idle")
	}
}

// advance replaces the current track with the head of the queue, or goes Idle.
// Completion and skip both end up here.
func (s *session) advance() error {
	s.current = nil
	next, ok := s.queue.Dequeue()
	if !ok {
		s.state = Idle
		s.log.Info().Msg("queue finished")
		return nil
	}
	if s.conn == nil {
		s.state = Idle
		return &ConnectionError{GuildID: s.guildID, Err: ErrNotConnected}
	}
	if err := s.start(next); err != nil {
		s.state = Idle
		return err
	}
	return nil
}

func (s *session) halt() {
	s.gen++
	if s.conn != nil {
		s.conn.Stop()
	}
}

func (s *session) stop() {
	if s.state == Idle {
		return
	}
	s.halt()
	s.current = nil
	s.state = Idle
	s.log.Info().Int("queue_len", s.queue.Len()).Msg("playback stopped")
}

func (s *session) pause() {
	if s.state != Playing {
		return
	}
	s.conn.Pause()
	s.state = Paused
	s.log.Info().Msg("playback paused")
}

func (s *session) resume() {
	if s.state != Paused {
		return
	}
	s.conn.Resume()
	s.state = Playing
	s.log.Info().Msg("playback resumed")
}

func (s *session) skip() error {
	if s.state == Idle {
		return nil
	}
	s.halt()
	s.log.Info().Msg("track skipped")
	return s.advance()
}

func (s *session) hold() error {
	if s.held || s.state != Idle {
		return ErrOutputBusy
	}
	s.held = true
	if s.conn != nil {
		if err := s.conn.Disconnect(); err != nil {
			s.log.Warn().Err(err).Msg("disconnect failed")
		}
		s.conn = nil
	}
	return nil
}

func (s *session) snapshot() Snapshot {
	snap := Snapshot{
		GuildID:   s.guildID,
		State:     s.state,
		StateName: s.state.String(),
		Queue:     s.queue.Items(),
		Connected: s.conn != nil,
		Held:      s.held,
	}
	if s.current != nil {
		t := *s.current
		snap.Current = &t
	}
	if s.conn != nil {
		snap.Streaming = s.conn.IsPlaying()
	}
	return snap
}

func (s *session) shutdown() {
	if s.conn == nil {
		return
	}
	s.conn.Stop()
	if err := s.conn.Disconnect(); err != nil {
		s.log.Warn().Err(err).Msg("disconnect failed")
	}
	s.conn = nil
	s.state = Idle
}
