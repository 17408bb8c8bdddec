package command

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"dinkbot/internal/music/player"
	"dinkbot/pkg/cmd"
)

// MusicCommand groups the playback commands. Everything except play answers
// silently.
type MusicCommand struct {
	Gateway Gateway
	Player  Player
}

func (c *MusicCommand) Play(ctx context.Context, inv *cmd.Invocation) error {
	m, err := guildContext(inv)
	if err != nil {
		return err
	}

	// Only needed when the bot is not connected yet; the player reports it.
	channelID, err := c.Gateway.UserVoiceChannel(m.GuildID, m.UserID)
	if err != nil {
		log.Debug().Str("component", "command").Str("user", m.UserID).Err(err).Msg("no voice state for user")
		channelID = ""
	}

	res, err := c.Player.Play(ctx, m.GuildID, channelID, strings.TrimSpace(inv.Args))
	if err != nil {
		return err
	}

	switch res.Outcome {
	case player.Queued:
		return c.Gateway.Send(m.ChannelID, "Added to Queue: "+res.Track.Display())
	default:
		return c.Gateway.Send(m.ChannelID, "Now Playing: "+res.Track.Display())
	}
}

func (c *MusicCommand) Stop(ctx context.Context, inv *cmd.Invocation) error {
	return c.guildOp(ctx, inv, c.Player.Stop)
}

func (c *MusicCommand) Pause(ctx context.Context, inv *cmd.Invocation) error {
	return c.guildOp(ctx, inv, c.Player.Pause)
}

func (c *MusicCommand) Resume(ctx context.Context, inv *cmd.Invocation) error {
	return c.guildOp(ctx, inv, c.Player.Resume)
}

func (c *MusicCommand) Skip(ctx context.Context, inv *cmd.Invocation) error {
	return c.guildOp(ctx, inv, c.Player.Skip)
}

func (c *MusicCommand) guildOp(ctx context.Context, inv *cmd.Invocation, op func(context.Context, string) error) error {
	m, err := guildContext(inv)
	if err != nil {
		return err
	}
	return op(ctx, m.GuildID)
}
