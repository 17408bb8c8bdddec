package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"dinkbot/internal/music/sources"
	"dinkbot/pkg/ratelimit"
)

var videoPattern = regexp.MustCompile(`"url":"/watch\?v=([a-zA-Z0-9_-]{11})`)

// Searcher finds videos through the public results page.
type Searcher struct {
	BaseURL string
	Client  *http.Client
	Limiter *ratelimit.AdaptiveLimiter
}

// NewSearcher returns a Searcher against youtube.com.
func NewSearcher(client *http.Client, limiter *ratelimit.AdaptiveLimiter) *Searcher {
	return &Searcher{
		BaseURL: "https://www.youtube.com",
		Client:  client,
		Limiter: limiter,
	}
}

// SearchFirstVideoURL returns the watch link of the first result for query.
func (s *Searcher) SearchFirstVideoURL(ctx context.Context, query string) (string, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	body, err := s.fetch(ctx, fmt.Sprintf("%s/results?search_query=%s", s.BaseURL, url.QueryEscape(query)))
	if s.Limiter != nil {
		s.Limiter.Observe(err)
	}
	if err != nil {
		return "", err
	}

	matches := videoPattern.FindStringSubmatch(string(body))
	if len(matches) < 2 {
		return "", sources.ErrNoResults
	}
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", matches[1]), nil
}

func (s *Searcher) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ratelimit.HTTPStatusError{URL: target, Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
