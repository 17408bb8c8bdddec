// Package cmd provides a transport-agnostic command core: a command is a name,
// a description and a Run func. How messages reach the registry (Discord, CLI,
// tests) is up to adapters that build an Invocation and call Run.
package cmd

import "context"

// Invocation carries what any adapter can pass to a command: the matched name,
// the raw argument string and an opaque payload. Adapters set Data to their own
// context (e.g. *command.MessageContext).
type Invocation struct {
	Name string
	Args string
	Data any
}

// HandlerFunc executes a command.
type HandlerFunc func(ctx context.Context, inv *Invocation) error

// Command is immutable once registered.
type Command struct {
	Name        string
	Description string
	Run         HandlerFunc
}
