package discord

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"dinkbot/internal/command"
	"dinkbot/pkg/cmd"
)

// Sender posts replies.
type Sender interface {
	Send(channelID, text string) error
}

// Dispatch runs the command in msg and replies with the error text if it
// fails. Messages without the prefix are ignored.
func Dispatch(ctx context.Context, reg *cmd.Registry, out Sender, msg *command.MessageContext) {
	c, args, err := reg.Dispatch(msg.Content)
	if errors.Is(err, cmd.ErrNotACommand) {
		return
	}
	if err == nil {
		err = c.Run(ctx, &cmd.Invocation{Name: c.Name, Args: args, Data: msg})
	}
	if err == nil || ctx.Err() != nil {
		return
	}

	log.Debug().Str("component", "discord").Str("guild", msg.GuildID).Err(err).Msg("command failed")
	if serr := out.Send(msg.ChannelID, command.UserMessage(err)); serr != nil {
		log.Warn().Str("component", "discord").Str("channel", msg.ChannelID).Err(serr).Msg("failed to send reply")
	}
}
