package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrNotACommand is returned by Dispatch for text without the prefix.
	ErrNotACommand = errors.New("message is not a command")
	// ErrDuplicateCommand matches any *DuplicateCommandError.
	ErrDuplicateCommand = errors.New("command already registered")
)

// DuplicateCommandError is a programming error raised at registration time.
type DuplicateCommandError struct {
	Name string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command %q already registered", e.Name)
}

func (e *DuplicateCommandError) Is(target error) bool { return target == ErrDuplicateCommand }

// UnknownCommandError is returned by Dispatch when the name is not registered.
// Its message is meant to be shown to the user as is.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Command %s not recognized.", e.Name)
}
