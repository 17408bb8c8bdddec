package radio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

var validContentTypes = []string{
	"audio/",
	"video/",
	"application/vnd.apple.mpegurl",
	"application/x-mpegurl",
	"application/ogg",
	"application/x-scpls",
	"application/xspf+xml",
	"application/octet-stream",
}

// RadioResolver checks that a link serves something ffmpeg can decode.
type RadioResolver struct {
	Client *http.Client
}

func NewRadioResolver(client *http.Client) *RadioResolver {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return fmt.Errorf("too many redirects")
		}
		return nil
	}
	return &RadioResolver{Client: &c}
}

// Validate returns the final URL after redirects when the content type (or the
// playlist extension) looks like a stream.
func (r *RadioResolver) Validate(ctx context.Context, rawURL string) (string, error) {
	contentType, finalURL, err := r.fetchContentType(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch content type: %w", err)
	}

	if isAllowedType(contentType) || isLikelyPlaylist(finalURL) {
		return finalURL, nil
	}
	return "", fmt.Errorf("invalid stream content-type %q for %s", contentType, finalURL)
}

func (r *RadioResolver) fetchContentType(ctx context.Context, rawURL string) (string, string, error) {
	resp, err := r.do(ctx, http.MethodHead, rawURL)
	if err != nil || resp.StatusCode >= 400 {
		if resp != nil {
			resp.Body.Close()
		}
		// some stream servers reject HEAD
		resp, err = r.do(ctx, http.MethodGet, rawURL)
		if err != nil {
			return "", "", err
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return "", "", fmt.Errorf("status %d", resp.StatusCode)
		}
	}
	defer resp.Body.Close()
	// endless streams: read a little and hang up
	_, _ = io.CopyN(io.Discard, resp.Body, 512)

	return resp.Header.Get("Content-Type"), resp.Request.URL.String(), nil
}

func (r *RadioResolver) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	return r.Client.Do(req)
}

func isAllowedType(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	for _, allowed := range validContentTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}
	return false
}

func isLikelyPlaylist(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".m3u", ".m3u8", ".pls", ".xspf", ".asx":
		return true
	}
	return false
}
