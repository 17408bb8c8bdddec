package player

import (
	"context"
	"fmt"

	"dinkbot/internal/music/sources"
)

// Voice opens audio outputs. Implementations talk to the chat gateway.
type Voice interface {
	Connect(ctx context.Context, guildID, channelID string) (Connection, error)
}

// Connection is one live audio output for a guild.
//
// Play starts streaming t and returns once streaming has begun; onDone is
// called from another goroutine when the stream ends on its own (nil on a
// clean end of stream). Stop halts the stream without calling onDone.
type Connection interface {
	Play(t sources.Track, onDone func(error)) error
	Stop()
	Pause()
	Resume()
	IsPlaying() bool
	Disconnect() error
}

// ConnectionError is returned when joining a voice channel fails.
type ConnectionError struct {
	GuildID   string
	ChannelID string
	Err       error
}

func (e *ConnectionError) Error() string {
	if e.ChannelID == "" {
		return fmt.Sprintf("cannot join voice in guild %s: %v", e.GuildID, e.Err)
	}
	return fmt.Sprintf("cannot join voice channel %s: %v", e.ChannelID, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
