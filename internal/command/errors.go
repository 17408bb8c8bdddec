package command

import (
	"errors"
	"fmt"

	"dinkbot/internal/music/player"
	"dinkbot/internal/music/queue"
	"dinkbot/internal/music/sources"
	"dinkbot/pkg/cmd"
)

var (
	ErrNoMessageContext = errors.New("command needs a message context")
	ErrGuildOnly        = errors.New("command only works in a server")
)

// ArgumentParseError is returned when a command argument has the wrong shape.
type ArgumentParseError struct {
	Arg  string
	Want string
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("%s is not %s.", e.Arg, e.Want)
}

// UserMessage turns a handler error into the text replied in chat.
func UserMessage(err error) string {
	var (
		argErr     *ArgumentParseError
		unknownErr *cmd.UnknownCommandError
		resErr     *sources.ResolutionError
		connErr    *player.ConnectionError
	)
	switch {
	case errors.As(err, &argErr):
		return argErr.Error()
	case errors.As(err, &unknownErr):
		return unknownErr.Error()
	case errors.Is(err, ErrGuildOnly):
		return "This command only works in a server."
	case errors.Is(err, player.ErrNoVoiceChannel):
		return "You need to be in a voice channel to play music."
	case errors.As(err, &connErr):
		return "I couldn't join your voice channel."
	case errors.Is(err, player.ErrOutputBusy):
		return "I'm busy right now, try again in a moment."
	case errors.Is(err, queue.ErrQueueFull):
		return "The queue is full."
	case errors.Is(err, sources.ErrEmptyInput):
		return "Tell me what to play."
	case errors.As(err, &resErr):
		if errors.Is(err, sources.ErrNoResults) {
			return fmt.Sprintf("Nothing found for %q.", resErr.Input)
		}
		return fmt.Sprintf("I couldn't play %q.", resErr.Input)
	}
	return "Something went wrong."
}
