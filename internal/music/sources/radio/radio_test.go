package radio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadioSource_ResolveAudioStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
	}))
	defer srv.Close()

	src := New(srv.Client())
	link := srv.URL + "/live"
	require.True(t, src.Match(link))

	track, err := src.Resolve(context.Background(), link)
	require.NoError(t, err)
	assert.Equal(t, link, track.URL)
	assert.Equal(t, link, track.StreamURL)
	assert.Equal(t, "radio", track.Source)
}

func TestRadioSource_FallsBackToGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/ogg")
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	_, err := New(srv.Client()).Resolve(context.Background(), srv.URL+"/stream")
	assert.NoError(t, err)
}

func TestRadioSource_RejectsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}))
	defer srv.Close()

	_, err := New(srv.Client()).Resolve(context.Background(), srv.URL+"/page")
	assert.Error(t, err)

	_, err = New(srv.Client()).Resolve(context.Background(), srv.URL+"/list.m3u8")
	assert.NoError(t, err, "playlist extension wins over content type")
}

func TestRadioSource_RejectsQueries(t *testing.T) {
	src := New(nil)
	assert.False(t, src.Match("some song"))
	_, err := src.Resolve(context.Background(), "some song")
	assert.Error(t, err)
}
