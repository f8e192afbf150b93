package stations

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stationsync/internal/models"
)

// SpiritFM harvests the Spirit FM recently-played page. The page marks up
// each entry with explicit title/artist classes; entries missing either
// field fall through to the timestamp heuristic.
type SpiritFM struct{}

func NewSpiritFM() *SpiritFM {
	return &SpiritFM{}
}

func (s *SpiritFM) Name() string {
	return "spiritfm"
}

func (s *SpiritFM) URL() string {
	return "https://www.spiritfm.com/recently-played/"
}

func (s *SpiritFM) Parse(doc *goquery.Document) []models.Sighting {
	var sightings []models.Sighting

	doc.Find(".song, .track, .recently-played-item").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(".title, .song-title").First().Text())
		artist := strings.TrimSpace(sel.Find(".artist, .song-artist").First().Text())
		if title == "" || artist == "" {
			return
		}
		sightings = append(sightings, models.Sighting{Title: title, Artist: artist, Source: s.Name()})
	})

	if len(sightings) > 0 {
		return sightings
	}
	return parseTimestamped(doc, s.Name())
}
