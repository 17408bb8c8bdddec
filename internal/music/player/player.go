// Package player owns playback: one session state machine per guild, each
// driven by a single event loop so that user commands and completion
// notifications never race.
package player

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"dinkbot/internal/music/sources"
)

var (
	ErrClosed         = errors.New("player is closed")
	ErrOutputBusy     = errors.New("audio output is busy")
	ErrNotConnected   = errors.New("no voice connection")
	ErrNoVoiceChannel = errors.New("not in a voice channel")
)

// Recorder receives every track that starts playing.
type Recorder interface {
	RecordTrack(guildID string, t sources.Track) error
}

type Option func(*Controller)

// WithQueueLimit bounds every guild queue; further tracks are rejected with
// queue.ErrQueueFull. n <= 0 keeps queues unbounded.
func WithQueueLimit(n int) Option {
	return func(c *Controller) { c.queueLimit = n }
}

// WithRecorder sets the played-track sink.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// Controller routes playback operations to per-guild sessions.
type Controller struct {
	resolver   sources.Resolver
	voice      Voice
	recorder   Recorder
	queueLimit int

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates a Controller.
func New(resolver sources.Resolver, voice Voice, opts ...Option) *Controller {
	c := &Controller{
		resolver: resolver,
		voice:    voice,
		sessions: make(map[string]*session),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Play resolves input and either starts it (Idle) or queues it behind the
// current track. Resolution and joining channelID happen before the session
// is touched, so a failure leaves the session unchanged. channelID is only
// needed when the guild has no voice connection yet.
func (c *Controller) Play(ctx context.Context, guildID, channelID, input string) (Result, error) {
	s, err := c.session(guildID)
	if err != nil {
		return Result{}, err
	}

	track, err := c.resolver.Resolve(ctx, input)
	if err != nil {
		var rerr *sources.ResolutionError
		if !errors.As(err, &rerr) {
			err = &sources.ResolutionError{Input: input, Err: err}
		}
		return Result{}, err
	}

	s.joining.Lock()
	defer s.joining.Unlock()

	snap, err := s.submit(ctx, event{kind: evSnapshot})
	if err != nil {
		return Result{}, err
	}
	if snap.snap.Held {
		return Result{}, ErrOutputBusy
	}

	var conn Connection
	if !snap.snap.Connected {
		if channelID == "" {
			return Result{}, &ConnectionError{GuildID: guildID, Err: ErrNoVoiceChannel}
		}
		conn, err = c.voice.Connect(ctx, guildID, channelID)
		if err != nil {
			return Result{}, &ConnectionError{GuildID: guildID, ChannelID: channelID, Err: err}
		}
		log.Info().Str("component", "player").Str("guild", guildID).Str("channel", channelID).Msg("joined voice channel")
	}

	r, err := s.submit(ctx, event{kind: evPlay, track: track, conn: conn})
	if err != nil {
		return Result{}, err
	}
	return r.result, r.err
}

// Stop halts the current track. Queued tracks stay queued.
func (c *Controller) Stop(ctx context.Context, guildID string) error {
	return c.command(ctx, guildID, evStop)
}

// Pause suspends the current track.
func (c *Controller) Pause(ctx context.Context, guildID string) error {
	return c.command(ctx, guildID, evPause)
}

// Resume continues a paused track.
func (c *Controller) Resume(ctx context.Context, guildID string) error {
	return c.command(ctx, guildID, evResume)
}

// Skip halts the current track and advances to the next queued one.
func (c *Controller) Skip(ctx context.Context, guildID string) error {
	return c.command(ctx, guildID, evSkip)
}

// Snapshot returns the state of a guild's session. Guilds that never played
// anything report Idle.
func (c *Controller) Snapshot(ctx context.Context, guildID string) (Snapshot, error) {
	s, ok := c.lookup(guildID)
	if !ok {
		return idleSnapshot(guildID), nil
	}
	r, err := s.submit(ctx, event{kind: evSnapshot})
	if err != nil {
		return Snapshot{}, err
	}
	return r.snap, nil
}

// Hold reserves an Idle guild's audio output for something other than music,
// dropping its voice connection. Play fails with ErrOutputBusy until the
// returned release func is called.
func (c *Controller) Hold(ctx context.Context, guildID string) (func(), error) {
	s, err := c.session(guildID)
	if err != nil {
		return nil, err
	}
	r, err := s.submit(ctx, event{kind: evHold})
	if err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if _, err := s.submit(context.Background(), event{kind: evRelease}); err != nil && !errors.Is(err, ErrClosed) {
				log.Warn().Str("component", "player").Str("guild", guildID).Err(err).Msg("release failed")
			}
		})
	}, nil
}

// Guilds returns the ids of all guilds with a session, sorted.
func (c *Controller) Guilds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops every session and disconnects its voice connection.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	c.wg.Wait()
	log.Info().Str("component", "player").Msg("all sessions closed")
}

func (c *Controller) command(ctx context.Context, guildID string, kind eventKind) error {
	s, ok := c.lookup(guildID)
	if !ok {
		return nil
	}
	r, err := s.submit(ctx, event{kind: kind})
	if err != nil {
		return err
	}
	return r.err
}

func (c *Controller) lookup(guildID string) (*session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[guildID]
	return s, ok
}

func (c *Controller) session(guildID string) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if s, ok := c.sessions[guildID]; ok {
		return s, nil
	}

	s := newSession(c, guildID)
	c.sessions[guildID] = s
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		s.run()
	}()
	return s, nil
}

func idleSnapshot(guildID string) Snapshot {
	return Snapshot{GuildID: guildID, State: Idle, StateName: Idle.String(), Queue: []sources.Track{}}
}
