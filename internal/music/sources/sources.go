// Package sources turns user input (a link or a search query) into a Track the
// audio output can play.
package sources

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

const (
	SourceYouTube = "youtube"
	SourceRadio   = "radio"
)

var (
	ErrEmptyInput = errors.New("nothing to look up")
	ErrNoResults  = errors.New("no results found")
	ErrNoSource   = errors.New("no source can handle this link")
)

// urlPattern matches direct links; anything else is a search query.
var urlPattern = regexp.MustCompile(`^http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// Track is a resolved, playable reference plus its display title. A Track is
// created per request and handed to playback once.
type Track struct {
	URL       string        `json:"url"`
	StreamURL string        `json:"-"`
	Title     string        `json:"title"`
	Source    string        `json:"source"`
	Duration  time.Duration `json:"duration"`
}

// Display returns the title, falling back to the link.
func (t Track) Display() string {
	if t.Title != "" {
		return t.Title
	}
	return t.URL
}

// Resolver produces a Track from raw user input.
type Resolver interface {
	Resolve(ctx context.Context, input string) (Track, error)
}

// Source is one backend a resolver can delegate to.
type Source interface {
	Match(input string) bool
	Resolve(ctx context.Context, input string) (Track, error)
	SourceName() string
}

// ResolutionError is returned when input could not be turned into a Track.
type ResolutionError struct {
	Input string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %q: %v", e.Input, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// IsURL reports whether input is a direct link rather than a search query.
func IsURL(input string) bool {
	return urlPattern.MatchString(input)
}
