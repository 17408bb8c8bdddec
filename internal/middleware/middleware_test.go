package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinkbot/internal/command"
	"dinkbot/internal/storage"
	"dinkbot/pkg/cmd"
)

type memStore struct {
	records map[string][]storage.CommandHistoryRecord
	err     error
}

func (m *memStore) AppendCommandToHistory(guildID string, rec storage.CommandHistoryRecord) error {
	if m.err != nil {
		return m.err
	}
	if m.records == nil {
		m.records = map[string][]storage.CommandHistoryRecord{}
	}
	m.records[guildID] = append(m.records[guildID], rec)
	return nil
}

func TestWithRecover(t *testing.T) {
	c := cmd.Apply(cmd.Command{Name: "boom", Run: func(context.Context, *cmd.Invocation) error {
		panic("kaboom")
	}}, WithRecover())

	err := c.Run(context.Background(), &cmd.Invocation{Name: "boom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestWithRecover_PassesErrors(t *testing.T) {
	want := errors.New("plain")
	c := cmd.Apply(cmd.Command{Name: "x", Run: func(context.Context, *cmd.Invocation) error {
		return want
	}}, WithRecover())
	assert.ErrorIs(t, c.Run(context.Background(), &cmd.Invocation{Name: "x"}), want)
}

func TestWithCommandLogger_RecordsHistory(t *testing.T) {
	store := &memStore{}
	failing := errors.New("nope")
	c := cmd.Apply(cmd.Command{Name: "play", Run: func(_ context.Context, inv *cmd.Invocation) error {
		if inv.Args == "bad" {
			return failing
		}
		return nil
	}}, WithCommandLogger(store))

	msg := &command.MessageContext{GuildID: "g1", ChannelID: "c1", UserID: "u1", Username: "alice"}
	require.NoError(t, c.Run(context.Background(), &cmd.Invocation{Name: "play", Args: "song", Data: msg}))
	assert.ErrorIs(t, c.Run(context.Background(), &cmd.Invocation{Name: "play", Args: "bad", Data: msg}), failing)

	recs := store.records["g1"]
	require.Len(t, recs, 2)
	assert.Equal(t, "play", recs[0].Command)
	assert.Equal(t, "song", recs[0].Param)
	assert.Equal(t, "alice", recs[0].Username)
	assert.False(t, recs[0].Failed)
	assert.True(t, recs[1].Failed)
}

func TestWithCommandLogger_NoContextOrStore(t *testing.T) {
	run := func(context.Context, *cmd.Invocation) error { return nil }

	store := &memStore{}
	c := cmd.Apply(cmd.Command{Name: "hello", Run: run}, WithCommandLogger(store))
	require.NoError(t, c.Run(context.Background(), &cmd.Invocation{Name: "hello"}))
	assert.Empty(t, store.records)

	c = cmd.Apply(cmd.Command{Name: "hello", Run: run}, WithCommandLogger(nil))
	require.NoError(t, c.Run(context.Background(), &cmd.Invocation{Name: "hello", Data: &command.MessageContext{GuildID: "g"}}))

	// a failing store never fails the command
	c = cmd.Apply(cmd.Command{Name: "hello", Run: run}, WithCommandLogger(&memStore{err: errors.New("disk full")}))
	require.NoError(t, c.Run(context.Background(), &cmd.Invocation{Name: "hello", Data: &command.MessageContext{GuildID: "g"}}))
}
