package stations

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stationsync/internal/models"
)

var (
	timestampRe = regexp.MustCompile(`\d+:\d+\s*[AP]M`)
	byRe        = regexp.MustCompile(`(?i)\s+by\s+`)
	capRunRe    = regexp.MustCompile(`[A-Z][^A-Z]*`)
)

// parseTimestamped walks elements whose text carries an on-air timestamp
// (the common layout for "recently played" widgets) and extracts one
// sighting per entry. When the entry exposes distinct title/artist spans
// those are used directly; otherwise the raw text is split heuristically.
func parseTimestamped(doc *goquery.Document, source string) []models.Sighting {
	var sightings []models.Sighting

	doc.Find("div, li").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if !timestampRe.MatchString(text) {
			return
		}
		// Skip containers: only process the innermost element carrying
		// the timestamp, not every ancestor wrapping it.
		if sel.Find("div, li").Length() > 0 {
			return
		}

		spans := sel.Find("span")
		if spans.Length() >= 3 {
			title := strings.TrimSpace(spans.Eq(0).Text())
			artist := strings.TrimSpace(spans.Eq(1).Text())
			if title != "" && artist != "" {
				sightings = append(sightings, models.Sighting{Title: title, Artist: artist, Source: source})
			}
			return
		}

		clean := strings.TrimSpace(timestampRe.ReplaceAllString(text, ""))
		if title, artist, ok := splitTitleArtist(clean); ok {
			sightings = append(sightings, models.Sighting{Title: title, Artist: artist, Source: source})
		}
	})

	return sightings
}

// splitTitleArtist recovers (title, artist) from unstructured entry text.
// Text of the form "Title by Artist" splits on the marker; otherwise the
// text is broken into capitalized runs and partitioned, which is
// best-effort and can misattribute words for unusual casing.
func splitTitleArtist(text string) (string, string, bool) {
	if text == "" {
		return "", "", false
	}

	if loc := byRe.FindStringIndex(text); loc != nil {
		title := strings.TrimSpace(text[:loc[0]])
		artist := strings.TrimSpace(text[loc[1]:])
		if title != "" && artist != "" {
			return title, artist, true
		}
		return "", "", false
	}

	parts := capRunRe.FindAllString(text, -1)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) == 4:
		return strings.Join(parts[:2], " "), strings.Join(parts[2:], " "), true
	case len(parts) > 3:
		return strings.Join(parts[:3], " "), strings.Join(parts[3:], " "), true
	}
	return "", "", false
}
