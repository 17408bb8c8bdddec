package player

import "dinkbot/internal/music/sources"

// State of a guild's playback session.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// Outcome says what Play did with the resolved track.
type Outcome int

const (
	Started Outcome = iota
	Queued
)

// Result of a Play call.
type Result struct {
	Outcome  Outcome
	Track    sources.Track
	Position int // 1-based queue position when Queued
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	GuildID   string          `json:"guild_id"`
	State     State           `json:"-"`
	StateName string          `json:"state"`
	Current   *sources.Track  `json:"current,omitempty"`
	Queue     []sources.Track `json:"queue"`
	Connected bool            `json:"connected"`
	Streaming bool            `json:"streaming"`
	Held      bool            `json:"held"`
}
