package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"dinkbot/internal/music/player"
	"dinkbot/internal/music/stream"
)

// Voice joins voice channels for the player.
type Voice struct {
	dg   *discordgo.Session
	opts []stream.Option
}

// NewVoice returns a player.Voice backed by the bot's session.
func (b *Bot) NewVoice(opts ...stream.Option) *Voice {
	return &Voice{dg: b.dg, opts: opts}
}

func (v *Voice) Connect(ctx context.Context, guildID, channelID string) (player.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vc, err := v.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}
	return stream.New(vc, v.opts...), nil
}
