package tasks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/charmbracelet/log"

	"stationsync/internal/catalog"
	"stationsync/internal/models"
	"stationsync/internal/shared"
)

var featuredRe = regexp.MustCompile(`(?i)\s+(w/|feat\.|featuring|ft\.)\s+`)

// Matcher resolves candidates against the catalog. Acceptance is a loose
// bidirectional substring check on the artist, first hit wins; the
// similarity score is recorded for diagnostics only and never gates a
// match.
type Matcher struct {
	client catalog.Client
	logger *log.Logger
	scorer *metrics.JaroWinkler
}

func NewMatcher(client catalog.Client, logger *log.Logger) *Matcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Matcher{
		client: client,
		logger: logger,
		scorer: metrics.NewJaroWinkler(),
	}
}

// Match searches the catalog by title and accepts the first track whose
// artist agrees with the candidate's. Two candidates may resolve to the
// same track; the reconciler collapses duplicates before mutating, so a
// repeat resolution still classifies as matched. A failed search is a run
// failure, not a missing song.
func (m *Matcher) Match(ctx context.Context, c models.Candidate) (models.MatchResult, error) {
	result := models.MatchResult{Candidate: c}

	tracks, err := m.client.SearchByTitle(ctx, c.SearchTitle)
	if err != nil {
		return result, fmt.Errorf("search %q: %w", c.SearchTitle, err)
	}

	mainArtist := truncateFeatured(c.SearchArtist)
	for _, t := range tracks {
		if !artistAgrees(mainArtist, c.SearchArtist, t.Artist) {
			continue
		}
		track := t
		result.Track = &track
		result.Confidence = strutil.Similarity(strings.ToLower(c.SearchArtist), strings.ToLower(t.Artist), m.scorer)
		m.logger.Debug("matched", "title", c.DisplayTitle, "artist", c.DisplayArtist,
			"track", t.ID, "confidence", result.Confidence)
		return result, nil
	}

	m.logger.Debug("no match", "title", c.DisplayTitle, "artist", c.DisplayArtist, "tracks", len(tracks))
	return result, nil
}

// truncateFeatured keeps the main act from a multi-artist credit.
func truncateFeatured(artist string) string {
	if loc := featuredRe.FindStringIndex(artist); loc != nil {
		return strings.TrimSpace(artist[:loc[0]])
	}
	return artist
}

// artistAgrees checks containment in either direction, against both the
// main act and the full credit. Catalog-side artists get the same
// ampersand rewrite as candidates so "Band & Co" meets "band and co".
func artistAgrees(mainArtist, fullArtist, catalogArtist string) bool {
	got := strings.ToLower(searchForm(catalogArtist))
	if got == "" {
		return false
	}
	for _, want := range []string{strings.ToLower(mainArtist), strings.ToLower(fullArtist)} {
		if want == "" {
			continue
		}
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return true
		}
	}
	return false
}
