// Package command holds the bot's text commands.
package command

import (
	"fmt"
	"time"

	"dinkbot/pkg/cmd"
)

const (
	defaultAnnounceFile     = "Dinkster.ogg"
	defaultAnnounceDuration = 10 * time.Second
)

// Deps are the collaborators the command table is built from.
type Deps struct {
	Gateway   Gateway
	Player    Player
	Announcer Announcer

	AnnounceFile     string
	AnnounceDuration time.Duration
	CountdownTick    time.Duration
}

// Table returns every command, in registration order.
func Table(d Deps) []cmd.Command {
	if d.AnnounceFile == "" {
		d.AnnounceFile = defaultAnnounceFile
	}
	if d.AnnounceDuration <= 0 {
		d.AnnounceDuration = defaultAnnounceDuration
	}

	hello := &HelloCommand{Gateway: d.Gateway}
	countdown := &CountdownCommand{Gateway: d.Gateway, Tick: d.CountdownTick}
	dinkster := &DinksterCommand{
		Gateway:   d.Gateway,
		Announcer: d.Announcer,
		Player:    d.Player,
		File:      d.AnnounceFile,
		Duration:  d.AnnounceDuration,
	}
	music := &MusicCommand{Gateway: d.Gateway, Player: d.Player}

	return []cmd.Command{
		{Name: "hello", Description: "Say hello", Run: hello.Run},
		{Name: "countdown", Description: "Count down from n, one per second", Run: countdown.Run},
		{Name: "dinkster", Description: "Play the Dinkster jingle in every voice channel", Run: dinkster.Run},
		{Name: "play", Description: "Play a link or the first search result", Run: music.Play},
		{Name: "stop", Description: "Stop the current track", Run: music.Stop},
		{Name: "pause", Description: "Pause the current track", Run: music.Pause},
		{Name: "resume", Description: "Resume a paused track", Run: music.Resume},
		{Name: "skip", Description: "Skip to the next queued track", Run: music.Skip},
	}
}

// Register adds the whole table to r, wrapping every command with mws.
func Register(r *cmd.Registry, d Deps, mws ...cmd.Middleware) error {
	for _, c := range Table(d) {
		if err := r.Register(cmd.Apply(c, mws...)); err != nil {
			return fmt.Errorf("register %s: %w", c.Name, err)
		}
	}
	return nil
}

func messageContext(inv *cmd.Invocation) (*MessageContext, error) {
	m, ok := inv.Data.(*MessageContext)
	if !ok || m == nil {
		return nil, ErrNoMessageContext
	}
	return m, nil
}

func guildContext(inv *cmd.Invocation) (*MessageContext, error) {
	m, err := messageContext(inv)
	if err != nil {
		return nil, err
	}
	if m.GuildID == "" {
		return nil, ErrGuildOnly
	}
	return m, nil
}
