package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	kkdai "github.com/kkdai/youtube/v2"

	"dinkbot/internal/music/sources"
	"dinkbot/pkg/ratelimit"
)

// YouTubeSource resolves watch links and search queries.
type YouTubeSource struct {
	client   *kkdai.Client
	searcher *Searcher
	limiter  *ratelimit.AdaptiveLimiter
}

// New builds a YouTube source on top of httpClient. limiter may be nil.
func New(httpClient *http.Client, limiter *ratelimit.AdaptiveLimiter) *YouTubeSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &YouTubeSource{
		client:   &kkdai.Client{HTTPClient: httpClient},
		searcher: NewSearcher(httpClient, limiter),
		limiter:  limiter,
	}
}

func (y *YouTubeSource) SourceName() string { return sources.SourceYouTube }

// Match reports whether input is a YouTube link.
func (y *YouTubeSource) Match(input string) bool {
	return isYouTubeURL(input)
}

// Resolve accepts a YouTube link or a search query.
func (y *YouTubeSource) Resolve(ctx context.Context, input string) (sources.Track, error) {
	input = strings.TrimSpace(input)

	link := input
	if !sources.IsURL(input) {
		found, err := y.searcher.SearchFirstVideoURL(ctx, input)
		if err != nil {
			return sources.Track{}, fmt.Errorf("search: %w", err)
		}
		link = found
	}

	id, err := ExtractVideoID(link)
	if err != nil {
		return sources.Track{}, err
	}

	if y.limiter != nil {
		if err := y.limiter.Wait(ctx); err != nil {
			return sources.Track{}, err
		}
	}
	video, err := y.client.GetVideoContext(ctx, id)
	if y.limiter != nil {
		y.limiter.Observe(err)
	}
	if err != nil {
		return sources.Track{}, fmt.Errorf("video lookup: %w", err)
	}

	format, err := bestAudio(video.Formats.WithAudioChannels())
	if err != nil {
		return sources.Track{}, err
	}

	streamURL, err := y.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return sources.Track{}, fmt.Errorf("stream url: %w", err)
	}

	return sources.Track{
		URL:       CleanVideoURL(link),
		StreamURL: streamURL,
		Title:     video.Title,
		Source:    sources.SourceYouTube,
		Duration:  video.Duration,
	}, nil
}

// bestAudio prefers audio-only formats, then the highest bitrate.
func bestAudio(formats kkdai.FormatList) (*kkdai.Format, error) {
	if len(formats) == 0 {
		return nil, errors.New("no audio formats found for video")
	}

	best := &formats[0]
	for i := range formats {
		f := &formats[i]
		if audioOnly(f) != audioOnly(best) {
			if audioOnly(f) {
				best = f
			}
			continue
		}
		if f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best, nil
}

func audioOnly(f *kkdai.Format) bool {
	return strings.HasPrefix(f.MimeType, "audio/")
}
