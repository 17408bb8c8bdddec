package source_resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinkbot/internal/music/sources"
)

type fakeSource struct {
	name  string
	match func(string) bool
	err   error
	calls []string
}

func (f *fakeSource) SourceName() string       { return f.name }
func (f *fakeSource) Match(input string) bool { return f.match(input) }
func (f *fakeSource) Resolve(_ context.Context, input string) (sources.Track, error) {
	f.calls = append(f.calls, input)
	if f.err != nil {
		return sources.Track{}, f.err
	}
	return sources.Track{URL: input, Title: f.name + ":" + input, Source: f.name}, nil
}

func TestSourceResolver_QueryGoesToSearch(t *testing.T) {
	yt := &fakeSource{name: "youtube", match: func(string) bool { return false }}
	radio := &fakeSource{name: "radio", match: sources.IsURL}
	r := New(yt, yt, radio)

	track, err := r.Resolve(context.Background(), "  songA ")
	require.NoError(t, err)
	assert.Equal(t, "youtube:songA", track.Title)
	assert.Empty(t, radio.calls)
}

func TestSourceResolver_LinkGoesToFirstMatch(t *testing.T) {
	yt := &fakeSource{name: "youtube", match: func(s string) bool { return s == "https://youtu.be/abcdefghijk" }}
	radio := &fakeSource{name: "radio", match: sources.IsURL}
	r := New(yt, yt, radio)

	track, err := r.Resolve(context.Background(), "https://youtu.be/abcdefghijk")
	require.NoError(t, err)
	assert.Equal(t, "youtube", track.Source)

	track, err = r.Resolve(context.Background(), "http://radio.example.com/live.mp3")
	require.NoError(t, err)
	assert.Equal(t, "radio", track.Source)
}

func TestSourceResolver_WrapsErrors(t *testing.T) {
	boom := errors.New("no network")
	yt := &fakeSource{name: "youtube", match: func(string) bool { return false }, err: boom}
	r := New(yt)

	_, err := r.Resolve(context.Background(), "songA")
	var rerr *sources.ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "songA", rerr.Input)
	assert.ErrorIs(t, err, boom)

	_, err = r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, sources.ErrEmptyInput)

	_, err = r.Resolve(context.Background(), "https://example.com/x")
	assert.ErrorIs(t, err, sources.ErrNoSource)
}
