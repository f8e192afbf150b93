// package tasks holds the pipeline stages between harvesting and
// persistence: candidate normalization, catalog matching, playlist
// reconciliation and the run engine that sequences them.
package tasks

import (
	"regexp"
	"strings"

	"stationsync/internal/models"
)

var (
	parensRe     = regexp.MustCompile(`\s*\([^)]*\)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	bangRe       = regexp.MustCompile(`[!?]`)
	ampersandRe  = regexp.MustCompile(`\s*[&+]\s*`)
	wordRe       = regexp.MustCompile(`[A-Za-z0-9]`)
)

var stopPhrases = map[string]bool{
	"by":              true,
	"recently played": true,
	"now playing:":    true,
	"search":          true,
}

// Normalize converts a raw sighting into a search candidate. The display
// fields keep the sighted text; the search fields get the cleaned form
// used for catalog queries. Returns false when the sighting is noise
// rather than a song: rejection looks at the cleaned title only (too
// short, a page chrome phrase, or no word characters at all), since
// artist names can legitimately be short.
func Normalize(s models.Sighting) (models.Candidate, bool) {
	title := cleanField(s.Title)
	artist := cleanField(s.Artist)

	if !usable(title) || artist == "" {
		return models.Candidate{}, false
	}

	return models.Candidate{
		SearchTitle:   searchForm(title),
		SearchArtist:  searchForm(artist),
		DisplayTitle:  title,
		DisplayArtist: artist,
		RawTitle:      s.Title,
		RawArtist:     s.Artist,
		Source:        s.Source,
	}, true
}

func cleanField(text string) string {
	text = parensRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func usable(text string) bool {
	if len(text) < 3 {
		return false
	}
	if stopPhrases[strings.ToLower(text)] {
		return false
	}
	return wordRe.MatchString(text)
}

// searchForm strips characters that confuse catalog search: terminal
// punctuation goes away (apostrophes stay, they are part of titles) and
// ampersand spellings collapse to the word form.
func searchForm(text string) string {
	text = bangRe.ReplaceAllString(text, "")
	text = ampersandRe.ReplaceAllString(text, " and ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
