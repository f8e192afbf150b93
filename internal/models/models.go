// package models defines the data model for the station sync tool
package models

import "time"

// Sighting is one raw "recently played" announcement scraped from a station
// page. Ephemeral; it lives only for the duration of a run.
type Sighting struct {
	Artist string
	Title  string
	Source string
}

// Candidate is a Sighting canonicalized for catalog lookup. SearchTitle and
// SearchArtist have parenthetical asides removed, whitespace collapsed,
// "!"/"?" stripped and "&"/"+" rewritten to "and"; apostrophes are preserved.
// DisplayTitle and DisplayArtist keep the cleaned but un-rewritten text for
// human-readable output. RawTitle and RawArtist keep the scraped text
// untouched; the wishlist ledger is keyed on them.
type Candidate struct {
	SearchTitle   string
	SearchArtist  string
	DisplayTitle  string
	DisplayArtist string
	RawTitle      string
	RawArtist     string
	Source        string
}

// CatalogTrack is a reference to a track in the remote media catalog. The
// catalog owns the full record; the sync core only reads the identifier and
// the artist/title text.
type CatalogTrack struct {
	ID     string
	Title  string
	Artist string
}

// Playlist represents a catalog playlist with its current member track IDs.
type Playlist struct {
	ID       string
	Name     string
	TrackIDs []string
}

// MatchResult classifies one candidate: either matched against a catalog
// track or missing from the catalog. Track is nil for a missing candidate.
// Confidence is a diagnostic similarity score; it never gates acceptance.
type MatchResult struct {
	Candidate  Candidate
	Track      *CatalogTrack
	Confidence float64
}

// Matched reports whether the candidate resolved to a catalog track.
func (m MatchResult) Matched() bool {
	return m.Track != nil
}

// AddedSong is one playlist addition in a run report, with the diagnostic
// artist-similarity score of the match that produced it.
type AddedSong struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// LedgerEntry is one missing song in the wishlist ledger, keyed by the
// literal (artist, title) pair as scraped. The ledger never contains the
// same key twice.
type LedgerEntry struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// Key returns the dedup key for the entry. The literal strings are used,
// not the normalized search fields.
func (e LedgerEntry) Key() string {
	return e.Artist + "\x00" + e.Title
}

// HistoryRecord is one immutable per-run record in the history store.
// Duration is in seconds, matching the duration_seconds column.
type HistoryRecord struct {
	ID           string
	Date         time.Time
	AddedCount   int
	AddedSongs   []string
	MissingCount int
	MissingSongs []LedgerEntry
	Duration     float64
}

// HistoryStats aggregates the history store for the statistics view.
type HistoryStats struct {
	TotalRuns    int
	TotalAdded   int
	TotalMissing int
	AvgAdded     float64
	AvgMissing   float64
}
