package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultPrefix marks a chat message as a command invocation.
const DefaultPrefix = "!"

// Registry stores commands by name and resolves prefixed text to a command.
// Registration happens once at startup; afterwards the registry is read-only
// and safe for concurrent lookups.
type Registry struct {
	prefix   string
	commands map[string]Command
}

// NewRegistry returns an empty registry for the given prefix.
func NewRegistry(prefix string) *Registry {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Registry{prefix: prefix, commands: make(map[string]Command)}
}

// Prefix returns the configured command prefix.
func (r *Registry) Prefix() string { return r.prefix }

// Register adds a command. Names are unique.
func (r *Registry) Register(c Command) error {
	if c.Name == "" {
		return errors.New("command name is empty")
	}
	if c.Run == nil {
		return fmt.Errorf("command %q has no handler", c.Name)
	}
	if _, exists := r.commands[c.Name]; exists {
		return &DuplicateCommandError{Name: c.Name}
	}
	r.commands[c.Name] = c
	return nil
}

// Get returns the command with the given name.
func (r *Registry) Get(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// All returns all registered commands, sorted by name.
func (r *Registry) All() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// Dispatch parses text as "<prefix><name>[<space><args>]" and returns the
// registered command together with the argument string. The argument is
// everything after the first whitespace rune and is empty when there is none.
func (r *Registry) Dispatch(text string) (Command, string, error) {
	if !r.HasPrefix(text) {
		return Command{}, "", ErrNotACommand
	}

	rest := text[len(r.prefix):]
	name, args := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		_, size := utf8.DecodeRuneInString(rest[i:])
		name, args = rest[:i], rest[i+size:]
	}

	c, ok := r.commands[name]
	if !ok {
		return Command{}, "", &UnknownCommandError{Name: name}
	}
	return c, args, nil
}

// HasPrefix reports whether text starts with the command prefix.
func (r *Registry) HasPrefix(text string) bool {
	return strings.HasPrefix(text, r.prefix)
}
