package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(context.Context, *Invocation) error { return nil }

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry("!")
	require.NoError(t, r.Register(Command{Name: "hello", Run: noop}))

	err := r.Register(Command{Name: "hello", Run: noop})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateCommand))

	var dup *DuplicateCommandError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "hello", dup.Name)
}

func TestRegistry_RegisterValidates(t *testing.T) {
	r := NewRegistry("!")
	assert.Error(t, r.Register(Command{Name: "", Run: noop}))
	assert.Error(t, r.Register(Command{Name: "x"}))
	assert.Empty(t, r.All())
}

func TestRegistry_DispatchHello(t *testing.T) {
	r := NewRegistry("!")
	called := false
	require.NoError(t, r.Register(Command{Name: "hello", Run: func(context.Context, *Invocation) error {
		called = true
		return nil
	}}))

	c, args, err := r.Dispatch("!hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Name)
	assert.Equal(t, "", args)

	require.NoError(t, c.Run(context.Background(), &Invocation{Name: c.Name, Args: args}))
	assert.True(t, called)
}

func TestRegistry_DispatchSplitsOnFirstWhitespace(t *testing.T) {
	r := NewRegistry("!")
	require.NoError(t, r.Register(Command{Name: "countdown", Run: noop}))
	require.NoError(t, r.Register(Command{Name: "play", Run: noop}))

	tests := []struct {
		text string
		name string
		args string
	}{
		{"!countdown 3", "countdown", "3"},
		{"!play never gonna give you up", "play", "never gonna give you up"},
		{"!play\thttps://example.com/a b", "play", "https://example.com/a b"},
		{"!countdown  3", "countdown", " 3"},
		{"!countdown", "countdown", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c, args, err := r.Dispatch(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.name, c.Name)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestRegistry_DispatchUnknown(t *testing.T) {
	r := NewRegistry("!")
	invoked := false
	require.NoError(t, r.Register(Command{Name: "hello", Run: func(context.Context, *Invocation) error {
		invoked = true
		return nil
	}}))

	_, _, err := r.Dispatch("!bogus")
	var unknown *UnknownCommandError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "bogus", unknown.Name)
	assert.Equal(t, "Command bogus not recognized.", err.Error())

	// lookup is case-sensitive
	_, _, err = r.Dispatch("!Hello")
	assert.True(t, errors.As(err, &unknown))
	assert.False(t, invoked)
}

func TestRegistry_DispatchRequiresPrefix(t *testing.T) {
	r := NewRegistry("!")
	require.NoError(t, r.Register(Command{Name: "hello", Run: noop}))

	_, _, err := r.Dispatch("hello")
	assert.ErrorIs(t, err, ErrNotACommand)
	_, _, err = r.Dispatch("")
	assert.ErrorIs(t, err, ErrNotACommand)
}

func TestRegistry_CustomPrefix(t *testing.T) {
	r := NewRegistry("$$")
	require.NoError(t, r.Register(Command{Name: "skip", Run: noop}))

	c, _, err := r.Dispatch("$$skip")
	require.NoError(t, err)
	assert.Equal(t, "skip", c.Name)
	assert.Equal(t, "$$", r.Prefix())
}

func TestRegistry_AllSorted(t *testing.T) {
	r := NewRegistry("")
	for _, n := range []string{"stop", "hello", "play"} {
		require.NoError(t, r.Register(Command{Name: n, Run: noop}))
	}
	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"hello", "play", "stop"}, names)
	assert.Equal(t, DefaultPrefix, r.Prefix())
}

func TestApply_OrderOutermostFirst(t *testing.T) {
	var trace []string
	mw := func(tag string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, inv *Invocation) error {
				trace = append(trace, tag)
				return next(ctx, inv)
			}
		}
	}
	c := Apply(Command{Name: "x", Run: func(context.Context, *Invocation) error {
		trace = append(trace, "run")
		return nil
	}}, mw("outer"), mw("inner"))

	require.NoError(t, c.Run(context.Background(), &Invocation{}))
	assert.Equal(t, []string{"outer", "inner", "run"}, trace)
}
