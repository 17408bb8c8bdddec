package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinkbot/internal/music/player"
	"dinkbot/internal/music/sources"
	"dinkbot/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePlayer struct {
	snaps map[string]player.Snapshot
	err   error
}

func (f *fakePlayer) Guilds() []string {
	var ids []string
	for id := range f.snaps {
		ids = append(ids, id)
	}
	return ids
}

func (f *fakePlayer) Snapshot(_ context.Context, id string) (player.Snapshot, error) {
	if f.err != nil {
		return player.Snapshot{}, f.err
	}
	return f.snaps[id], nil
}

type fakeHistory struct{}

func (fakeHistory) FetchCommandHistory(string) ([]storage.CommandHistoryRecord, error) {
	return []storage.CommandHistoryRecord{{Command: "play", Param: "song"}}, nil
}

func (fakeHistory) FetchTrackHistory(string) ([]storage.TrackHistoryRecord, error) {
	return []storage.TrackHistoryRecord{{Title: "song"}}, nil
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func testPlayer() *fakePlayer {
	return &fakePlayer{snaps: map[string]player.Snapshot{
		"g1": {
			GuildID:   "g1",
			State:     player.Playing,
			StateName: "playing",
			Current:   &sources.Track{Title: "song", URL: "https://example.com/song"},
			Queue:     []sources.Track{{Title: "next"}},
			Connected: true,
		},
		"g2": {GuildID: "g2", State: player.Idle, StateName: "idle", Queue: []sources.Track{}},
	}}
}

func TestStatus(t *testing.T) {
	s := New(testPlayer(), fakeHistory{})
	rec, body := get(t, s.Handler(), "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "online", body["status"])
	assert.EqualValues(t, 2, body["guilds"])
	assert.EqualValues(t, 1, body["playing"])
}

func TestGuild(t *testing.T) {
	s := New(testPlayer(), fakeHistory{})
	rec, body := get(t, s.Handler(), "/guilds/g1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "playing", body["state"])
	assert.Equal(t, "song", body["current"].(map[string]any)["title"])
	assert.Len(t, body["queue"], 1)
	assert.NotContains(t, body, "State")
}

func TestGuild_Error(t *testing.T) {
	s := New(&fakePlayer{err: player.ErrClosed}, nil)
	rec, body := get(t, s.Handler(), "/guilds/g1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, player.ErrClosed.Error(), body["error"])
}

func TestGuildHistory(t *testing.T) {
	s := New(testPlayer(), fakeHistory{})
	rec, body := get(t, s.Handler(), "/guilds/g1/history")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["tracks"], 1)
	assert.Len(t, body["commands"], 1)

	s = New(testPlayer(), nil)
	rec, _ = get(t, s.Handler(), "/guilds/g1/history")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := New(testPlayer(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	cancel()
	assert.NoError(t, <-done)
}

