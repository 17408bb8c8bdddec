package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/dgvoice"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

func init() {
	dgvoice.OnError = func(str string, err error) {
		log.Warn().Str("component", "dgvoice").Err(err).Msg(str)
	}
}

// VoiceChannels lists the guild's voice channels in display order.
func (b *Bot) VoiceChannels(guildID string) ([]string, error) {
	channels, err := b.dg.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving channels: %w", err)
	}

	var ids []string
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildVoice {
			ids = append(ids, ch.ID)
		}
	}
	return ids, nil
}

// Announce joins channelID, plays file for d (or until ctx ends) and leaves.
func (b *Bot) Announce(ctx context.Context, guildID, channelID, file string, d time.Duration) error {
	vc, err := b.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	stop := make(chan bool)
	done := make(chan struct{})
	go func() {
		defer close(done)
		dgvoice.PlayAudioFile(vc, file, stop)
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	close(stop)
	<-done
	if err := vc.Disconnect(); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	b.log.Info().Str("guild", guildID).Str("channel", channelID).Msg("announcement finished")
	return ctx.Err()
}
