package stations

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"stationsync/internal/models"
	mocks "stationsync/internal/testing"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestJourneyFMParseSpans(t *testing.T) {
	html := `<html><body>
		<div class="header">Recently Played</div>
		<div class="entry"><span>Graves Into Gardens</span><span>Elevation Worship</span><span>3:05 PM</span></div>
		<div class="entry"><span>Alive</span><span>Big Daddy Weave</span><span>2:58 PM</span></div>
		<div class="footer">no timestamp here</div>
	</body></html>`

	got := NewJourneyFM().Parse(docFrom(t, html))
	want := []models.Sighting{
		{Title: "Graves Into Gardens", Artist: "Elevation Worship", Source: "journeyfm"},
		{Title: "Alive", Artist: "Big Daddy Weave", Source: "journeyfm"},
	}
	if len(got) != len(want) {
		t.Fatalf("sightings = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sighting[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestJourneyFMParseTextFallback(t *testing.T) {
	html := `<html><body>
		<li>3:05 PM Graves Into Gardens by Elevation Worship</li>
	</body></html>`

	got := NewJourneyFM().Parse(docFrom(t, html))
	if len(got) != 1 {
		t.Fatalf("sightings = %d, want 1: %+v", len(got), got)
	}
	if got[0].Title != "Graves Into Gardens" || got[0].Artist != "Elevation Worship" {
		t.Errorf("sighting = %+v", got[0])
	}
}

func TestSplitTitleArtist(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantTitle  string
		wantArtist string
		wantOK     bool
	}{
		{"by marker", "Alive by Big Daddy Weave", "Alive", "Big Daddy Weave", true},
		{"by marker case insensitive", "Alive BY Big Daddy Weave", "Alive", "Big Daddy Weave", true},
		{"four capital runs split evenly", "Graves Into Elevation Worship", "Graves Into", "Elevation Worship", true},
		{"longer run keeps three for title", "My Own Little World Matthew West", "My Own Little", "World Matthew West", true},
		{"too few runs rejected", "Alive Weave", "", "", false},
		{"empty rejected", "", "", "", false},
		{"by with empty artist rejected", "Alive by ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, artist, ok := splitTitleArtist(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if title != tt.wantTitle || artist != tt.wantArtist {
				t.Errorf("split = (%q, %q), want (%q, %q)", title, artist, tt.wantTitle, tt.wantArtist)
			}
		})
	}
}

func TestSpiritFMParseClasses(t *testing.T) {
	html := `<html><body>
		<div class="song"><span class="title">Alive</span><span class="artist">Big Daddy Weave</span></div>
		<div class="song"><span class="title">Trust In God</span><span class="artist">Elevation Worship</span></div>
		<div class="song"><span class="title">Broken Entry</span></div>
	</body></html>`

	got := NewSpiritFM().Parse(docFrom(t, html))
	if len(got) != 2 {
		t.Fatalf("sightings = %d, want 2 (incomplete entry skipped): %+v", len(got), got)
	}
	if got[0].Source != "spiritfm" {
		t.Errorf("source = %q, want spiritfm", got[0].Source)
	}
}

func TestHarvesterDeduplicates(t *testing.T) {
	fetcher := mocks.NewMockFetcher()
	fetcher.Pages[NewJourneyFM().URL()] = `<html><body>
		<div class="entry"><span>Alive</span><span>Big Daddy Weave</span><span>3:05 PM</span></div>
		<div class="entry"><span>ALIVE</span><span>big daddy weave</span><span>2:00 PM</span></div>
		<div class="entry"><span>Trust In God</span><span>Elevation Worship</span><span>1:00 PM</span></div>
	</body></html>`

	h := NewHarvester(fetcher, nil)
	sightings, warnings := h.Harvest(context.Background(), []Source{NewJourneyFM()})
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if len(sightings) != 2 {
		t.Fatalf("sightings = %d, want 2 after case-insensitive dedup: %+v", len(sightings), sightings)
	}
	if sightings[0].Title != "Alive" {
		t.Errorf("first spelling wins, got %q", sightings[0].Title)
	}
}

func TestHarvesterContinuesPastFailedSource(t *testing.T) {
	fetcher := mocks.NewMockFetcher()
	fetcher.Pages[NewSpiritFM().URL()] = `<html><body>
		<div class="song"><span class="title">Alive</span><span class="artist">Big Daddy Weave</span></div>
	</body></html>`

	h := NewHarvester(fetcher, nil)
	sightings, warnings := h.Harvest(context.Background(), []Source{NewJourneyFM(), NewSpiritFM()})
	if len(warnings) != 1 || warnings[0].Source != "journeyfm" {
		t.Fatalf("warnings = %v, want journeyfm failure", warnings)
	}
	if len(sightings) != 1 {
		t.Errorf("sightings = %d, failing source must not block the rest", len(sightings))
	}
}

func TestResolveSources(t *testing.T) {
	sources, err := ResolveSources([]string{"journeyfm", " SpiritFM "})
	if err != nil {
		t.Fatalf("ResolveSources returned error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(sources))
	}
	if sources[0].URL() != "https://www.myjourneyfm.com/recently-played/" {
		t.Errorf("journeyfm url = %q", sources[0].URL())
	}
	if sources[1].URL() != "https://www.spiritfm.com/recently-played/" {
		t.Errorf("spiritfm url = %q", sources[1].URL())
	}

	if _, err := ResolveSources([]string{"pirate-radio"}); err == nil {
		t.Error("expected unknown station to error")
	}
}
