// Package middleware wraps text commands with cross-cutting behaviour.
package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"dinkbot/pkg/cmd"
)

// WithRecover turns a panicking handler into an error so one bad command
// cannot take the dispatch loop down.
func WithRecover() cmd.Middleware {
	return func(next cmd.HandlerFunc) cmd.HandlerFunc {
		return func(ctx context.Context, inv *cmd.Invocation) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Str("component", "command").
						Str("command", inv.Name).
						Interface("panic", r).
						Bytes("stack", debug.Stack()).
						Msg("command panicked")
					err = fmt.Errorf("command %s panicked: %v", inv.Name, r)
				}
			}()
			return next(ctx, inv)
		}
	}
}
