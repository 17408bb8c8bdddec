package middleware

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"dinkbot/internal/command"
	"dinkbot/internal/storage"
	"dinkbot/pkg/cmd"
)

// HistoryStore persists executed commands.
type HistoryStore interface {
	AppendCommandToHistory(guildID string, rec storage.CommandHistoryRecord) error
}

// WithCommandLogger logs every command run and appends it to the guild's
// command history. store may be nil.
func WithCommandLogger(store HistoryStore) cmd.Middleware {
	return func(next cmd.HandlerFunc) cmd.HandlerFunc {
		return func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := next(ctx, inv)

			m, _ := inv.Data.(*command.MessageContext)
			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev = ev.Str("component", "command").Str("command", inv.Name).Dur("took", time.Since(start))
			if m != nil {
				ev = ev.Str("guild", m.GuildID).Str("user", m.Username)
			}
			ev.Msg("command executed")

			if store == nil || m == nil || m.GuildID == "" {
				return err
			}
			rec := storage.CommandHistoryRecord{
				ChannelID: m.ChannelID,
				UserID:    m.UserID,
				Username:  m.Username,
				Command:   inv.Name,
				Param:     inv.Args,
				Failed:    err != nil,
				Datetime:  time.Now(),
			}
			if e := store.AppendCommandToHistory(m.GuildID, rec); e != nil {
				log.Warn().Str("component", "command").Str("command", inv.Name).Err(e).Msg("failed to log command")
			}
			return err
		}
	}
}
