package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	valid := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":              "dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&list=PL123&t=42":  "dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=dQw4w9WgXcQ":            "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?t=10":                        "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":               "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":                "dQw4w9WgXcQ",
	}
	for in, want := range valid {
		id, err := ExtractVideoID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, id, in)
	}

	for _, in := range []string{
		"https://www.youtube.com/channel/UC123",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/short",
	} {
		_, err := ExtractVideoID(in)
		assert.ErrorIs(t, err, ErrNotAVideo, in)
	}
}

func TestCleanVideoURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", CleanVideoURL("https://youtu.be/dQw4w9WgXcQ?t=3"))
	assert.Equal(t, "not a link", CleanVideoURL("not a link"))
}

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, isYouTubeURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, isYouTubeURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.False(t, isYouTubeURL("https://soundcloud.com/a/b"))
}
