// Package stream plays tracks into a Discord voice connection:
// ffmpeg decodes to PCM, gopus encodes Opus, discordgo sends it.
package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"dinkbot/internal/music/sources"
)

var ErrNoStreamURL = errors.New("track has no playable url")

// Connection streams one track at a time to a voice output. It implements
// player.Connection.
type Connection struct {
	out        chan<- []byte
	speaking   func(bool) error
	disconnect func() error
	open       Opener
	newEncoder func() (Encoder, error)

	mu      sync.Mutex
	cancel  context.CancelFunc
	running chan struct{}
	gate    *gate
}

// Play stops whatever is streaming and starts t. onDone runs once the stream
// ends by itself, with the pump error or nil.
func (c *Connection) Play(t sources.Track, onDone func(error)) error {
	c.Stop()

	url := t.StreamURL
	if url == "" {
		url = t.URL
	}
	if url == "" {
		return ErrNoStreamURL
	}

	ctx, cancel := context.WithCancel(context.Background())
	src, err := c.open(ctx, url)
	if err != nil {
		cancel()
		return fmt.Errorf("open stream: %w", err)
	}
	enc, err := c.newEncoder()
	if err != nil {
		cancel()
		src.Close()
		return fmt.Errorf("encoder error: %w", err)
	}

	running := make(chan struct{})
	g := newGate()

	c.mu.Lock()
	c.cancel, c.running, c.gate = cancel, running, g
	c.mu.Unlock()

	c.setSpeaking(true)
	go func() {
		defer close(running)
		err := pump(ctx.Done(), src, enc, c.out, g)
		stopped := ctx.Err() != nil
		cancel()
		src.Close()
		c.setSpeaking(false)

		if !stopped && onDone != nil {
			onDone(err)
		}
	}()
	return nil
}

// Stop halts the current stream and waits for it to wind down. onDone is not
// called.
func (c *Connection) Stop() {
	c.mu.Lock()
	cancel, running := c.cancel, c.running
	c.cancel, c.running, c.gate = nil, nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-running
}

func (c *Connection) Pause() {
	c.mu.Lock()
	g := c.gate
	c.mu.Unlock()
	if g != nil {
		g.pause()
		c.setSpeaking(false)
	}
}

func (c *Connection) Resume() {
	c.mu.Lock()
	g := c.gate
	c.mu.Unlock()
	if g != nil {
		g.resume()
		c.setSpeaking(true)
	}
}

// IsPlaying reports whether a stream is still being pumped.
func (c *Connection) IsPlaying() bool {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if running == nil {
		return false
	}
	select {
	case <-running:
		return false
	default:
		return true
	}
}

// Disconnect stops streaming and leaves the voice channel.
func (c *Connection) Disconnect() error {
	c.Stop()
	if c.disconnect == nil {
		return nil
	}
	return c.disconnect()
}

func (c *Connection) setSpeaking(on bool) {
	if c.speaking == nil {
		return
	}
	if err := c.speaking(on); err != nil {
		log.Debug().Str("component", "stream").Bool("speaking", on).Err(err).Msg("speaking update failed")
	}
}
