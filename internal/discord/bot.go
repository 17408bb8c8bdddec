package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"dinkbot/internal/command"
	"dinkbot/pkg/cmd"
)

var ErrNotInVoice = errors.New("user not in any voice channel")

// Bot is a Discord bot
type Bot struct {
	dg    *discordgo.Session
	reg   *cmd.Registry
	lanes *lanes
	log   zerolog.Logger
}

// New creates the gateway session without connecting.
func New(token string) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &Bot{
		dg:  dg,
		log: log.With().Str("component", "discord").Logger(),
	}, nil
}

// Session exposes the underlying discordgo session.
func (b *Bot) Session() *discordgo.Session { return b.dg }

// Start connects and dispatches commands from reg until ctx is done.
func (b *Bot) Start(ctx context.Context, reg *cmd.Registry) error {
	b.reg = reg
	b.lanes = newLanes(ctx, laneBuffer, laneIdle)

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	return nil
}

// Drain waits for in-flight commands after the Start context is done.
func (b *Bot) Drain() {
	if b.lanes != nil {
		b.lanes.wait()
	}
}

// Close closes the gateway session.
func (b *Bot) Close() error {
	return b.dg.Close()
}

// onReady is called when the bot is ready
func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("logged in")
}

// onMessageCreate is called when a message is created
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || s.State.User == nil || m.Author.ID == s.State.User.ID {
		return
	}
	if m.Content == "" || !b.reg.HasPrefix(m.Content) {
		return
	}

	msg := &command.MessageContext{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		Content:   m.Content,
	}

	// DMs have no guild; they get a lane per channel
	key := m.GuildID
	if key == "" {
		key = m.ChannelID
	}
	b.lanes.submit(key, func(ctx context.Context) {
		Dispatch(ctx, b.reg, b, msg)
	})
}

// Send posts a plain text message.
func (b *Bot) Send(channelID, text string) error {
	if _, err := b.dg.ChannelMessageSend(channelID, text); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// UserVoiceChannel returns the voice channel the user is connected to.
func (b *Bot) UserVoiceChannel(guildID, userID string) (string, error) {
	vs, err := b.dg.State.VoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", ErrNotInVoice
	}
	return vs.ChannelID, nil
}
