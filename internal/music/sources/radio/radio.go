package radio

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"dinkbot/internal/music/sources"
)

// RadioSource plays any direct audio link (internet radio, files) as is.
type RadioSource struct {
	resolver *RadioResolver
}

// New returns a radio source; client may be nil.
func New(client *http.Client) *RadioSource {
	return &RadioSource{resolver: NewRadioResolver(client)}
}

func (r *RadioSource) SourceName() string { return sources.SourceRadio }

// Match accepts any link; the resolver is expected to ask more specific
// sources first.
func (r *RadioSource) Match(input string) bool {
	return sources.IsURL(input)
}

func (r *RadioSource) Resolve(ctx context.Context, input string) (sources.Track, error) {
	input = strings.TrimSpace(input)
	if !sources.IsURL(input) {
		return sources.Track{}, fmt.Errorf("not a link: %q", input)
	}

	finalURL, err := r.resolver.Validate(ctx, input)
	if err != nil {
		return sources.Track{}, err
	}

	return sources.Track{
		URL:       input,
		StreamURL: finalURL,
		Title:     input,
		Source:    sources.SourceRadio,
	}, nil
}
