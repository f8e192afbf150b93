package stations

import (
	"github.com/PuerkitoBio/goquery"

	"stationsync/internal/models"
)

// JourneyFM harvests the Journey FM recently-played page.
type JourneyFM struct{}

func NewJourneyFM() *JourneyFM {
	return &JourneyFM{}
}

func (j *JourneyFM) Name() string {
	return "journeyfm"
}

func (j *JourneyFM) URL() string {
	return "https://www.myjourneyfm.com/recently-played/"
}

func (j *JourneyFM) Parse(doc *goquery.Document) []models.Sighting {
	return parseTimestamped(doc, j.Name())
}
