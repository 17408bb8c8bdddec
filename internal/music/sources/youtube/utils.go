package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	youtubeURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.|music\.|m\.)?(youtube\.com|youtu\.be)/\S+`)
	videoIDPattern    = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

	ErrNotAVideo = errors.New("not a YouTube video link")
)

func isYouTubeURL(input string) bool {
	return youtubeURLPattern.MatchString(input)
}

// CleanVideoURL strips everything but the video id from a YouTube link.
func CleanVideoURL(raw string) string {
	id, err := ExtractVideoID(raw)
	if err != nil {
		return raw
	}
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}

// ExtractVideoID returns the 11 character id of a watch, short or youtu.be link.
func ExtractVideoID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAVideo, err)
	}

	var id string
	switch strings.TrimPrefix(u.Hostname(), "www.") {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", ErrNotAVideo
	}
	return id, nil
}
