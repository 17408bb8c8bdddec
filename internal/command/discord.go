package command

import (
	"context"
	"time"

	"dinkbot/internal/music/player"
)

// MessageContext describes the chat message that triggered a command. The
// gateway adapter puts it in cmd.Invocation.Data.
type MessageContext struct {
	GuildID   string
	ChannelID string
	UserID    string
	Username  string
	Content   string
}

// Gateway is the part of the chat connection handlers talk to.
type Gateway interface {
	Send(channelID, text string) error
	UserVoiceChannel(guildID, userID string) (string, error)
}

// Announcer plays a local audio file into voice channels, outside the music
// player.
type Announcer interface {
	VoiceChannels(guildID string) ([]string, error)
	Announce(ctx context.Context, guildID, channelID, file string, d time.Duration) error
}

// Player is the playback surface used by the music commands.
type Player interface {
	Play(ctx context.Context, guildID, channelID, input string) (player.Result, error)
	Stop(ctx context.Context, guildID string) error
	Pause(ctx context.Context, guildID string) error
	Resume(ctx context.Context, guildID string) error
	Skip(ctx context.Context, guildID string) error
	Hold(ctx context.Context, guildID string) (release func(), err error)
}
