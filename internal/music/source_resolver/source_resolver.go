package source_resolver

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"dinkbot/internal/music/sources"
)

// SourceResolver picks the source for an input: search queries go to the
// search source, links to the first source that matches them.
type SourceResolver struct {
	search  sources.Source
	sources []sources.Source
}

// New returns a resolver. search handles plain queries; linkSources are asked
// in order for links.
func New(search sources.Source, linkSources ...sources.Source) *SourceResolver {
	return &SourceResolver{search: search, sources: linkSources}
}

// Resolve implements sources.Resolver. All failures come back as
// *sources.ResolutionError.
func (r *SourceResolver) Resolve(ctx context.Context, input string) (sources.Track, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return sources.Track{}, &sources.ResolutionError{Input: input, Err: sources.ErrEmptyInput}
	}

	src, err := r.pick(input)
	if err != nil {
		return sources.Track{}, &sources.ResolutionError{Input: input, Err: err}
	}

	track, err := src.Resolve(ctx, input)
	if err != nil {
		log.Warn().Str("component", "sources").Str("source", src.SourceName()).Str("input", input).Err(err).Msg("resolve failed")
		return sources.Track{}, &sources.ResolutionError{Input: input, Err: err}
	}

	log.Info().Str("component", "sources").Str("source", src.SourceName()).Str("title", track.Title).Msg("resolved")
	return track, nil
}

func (r *SourceResolver) pick(input string) (sources.Source, error) {
	if !sources.IsURL(input) {
		if r.search == nil {
			return nil, sources.ErrNoSource
		}
		return r.search, nil
	}
	for _, s := range r.sources {
		if s.Match(input) {
			return s, nil
		}
	}
	return nil, sources.ErrNoSource
}
