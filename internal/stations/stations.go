// package stations implements the harvest adapter: one Source per radio
// station page, plus a Harvester that fetches and deduplicates sightings.
//
// Each Source independently guarantees the Sighting shape for its page
// structure. Fetching is a small interface so the rendering mechanism stays
// replaceable (the default is a plain HTTP GET, which is best-effort for
// script-heavy pages).
package stations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"

	"stationsync/internal/models"
	"stationsync/internal/shared"
)

// Source parses one station's "recently played" page.
type Source interface {
	Name() string
	URL() string
	Parse(doc *goquery.Document) []models.Sighting
}

// PageFetcher obtains the raw page for a station URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher is the default PageFetcher using a plain HTTP GET.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s: status %d", shared.ErrSourceUnavailable, pageURL, resp.StatusCode)
	}
	return resp.Body, nil
}

// SourceError records a station that could not be harvested. Harvest
// continues with the remaining sources.
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Harvester fetches every configured source and merges the sightings,
// deduplicating within the call by case-insensitive (title, artist) while
// preserving source-traversal order.
type Harvester struct {
	fetcher PageFetcher
	logger  *log.Logger
}

func NewHarvester(fetcher PageFetcher, logger *log.Logger) *Harvester {
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Harvester{fetcher: fetcher, logger: logger}
}

// Harvest collects sightings from all sources. Per-source failures are
// returned as warnings, never as a harvest failure.
func (h *Harvester) Harvest(ctx context.Context, sources []Source) ([]models.Sighting, []SourceError) {
	var sightings []models.Sighting
	var warnings []SourceError
	seen := make(map[string]bool)

	for _, src := range sources {
		body, err := h.fetcher.Fetch(ctx, src.URL())
		if err != nil {
			h.logger.Warn("station harvest failed", "station", src.Name(), "err", err)
			warnings = append(warnings, SourceError{Source: src.Name(), Err: err})
			continue
		}

		doc, err := goquery.NewDocumentFromReader(body)
		body.Close()
		if err != nil {
			h.logger.Warn("station page unparseable", "station", src.Name(), "err", err)
			warnings = append(warnings, SourceError{Source: src.Name(), Err: err})
			continue
		}

		parsed := src.Parse(doc)
		h.logger.Info("harvested station", "station", src.Name(), "sightings", len(parsed))

		for _, s := range parsed {
			key := strings.ToLower(s.Title) + "\x00" + strings.ToLower(s.Artist)
			if seen[key] {
				continue
			}
			seen[key] = true
			sightings = append(sightings, s)
		}
	}

	return sightings, warnings
}

// ResolveSources maps configured station names to Source implementations.
func ResolveSources(names []string) ([]Source, error) {
	var sources []Source
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "journeyfm", "journey_fm":
			sources = append(sources, NewJourneyFM())
		case "spiritfm", "spirit_fm":
			sources = append(sources, NewSpiritFM())
		default:
			return nil, fmt.Errorf("%w: %q", shared.ErrUnknownStation, name)
		}
	}
	return sources, nil
}
