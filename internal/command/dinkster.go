package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"dinkbot/internal/music/player"
	"dinkbot/pkg/cmd"
)

// DinksterCommand visits every voice channel of the guild and plays the
// jingle in each for a fixed time. The guild's music output is held for the
// whole tour so the two never overlap.
type DinksterCommand struct {
	Gateway   Gateway
	Announcer Announcer
	Player    Player
	File      string
	Duration  time.Duration
}

func (c *DinksterCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	m, err := guildContext(inv)
	if err != nil {
		return err
	}

	release, err := c.Player.Hold(ctx, m.GuildID)
	if errors.Is(err, player.ErrOutputBusy) {
		return c.Gateway.Send(m.ChannelID, "I'm busy playing music.")
	}
	if err != nil {
		return err
	}
	defer release()

	channels, err := c.Announcer.VoiceChannels(m.GuildID)
	if err != nil {
		return fmt.Errorf("failed to list voice channels: %w", err)
	}

	for _, ch := range channels {
		if err := c.Announcer.Announce(ctx, m.GuildID, ch, c.File, c.Duration); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Str("component", "command").Str("guild", m.GuildID).Str("channel", ch).Err(err).Msg("announcement failed")
		}
	}
	return nil
}
