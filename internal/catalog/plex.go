// Plex implementation of [Client]
//
// Endpoints follow the Plex Media Server HTTP API: XML MediaContainer
// responses, X-Plex-Token authentication, type=10 for music tracks.
package catalog

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"stationsync/internal/models"
	"stationsync/internal/shared"
)

const (
	plexTrackType = "10"
	plexTag       = "stationsync"
	plexMaxRating = "10"

	defaultTimeout = 30 * time.Second
)

// PlexClient implements [Client] against a Plex Media Server.
type PlexClient struct {
	baseURL    string
	token      string
	sectionID  int
	serverID   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewPlexClient creates a PlexClient from the plex section of the config.
func NewPlexClient(cfg shared.PlexConfig, logger *log.Logger) *PlexClient {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlexClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
		sectionID:  cfg.SectionID,
		serverID:   cfg.ServerID,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(4), 2),
		logger:     logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client. Used in tests.
func (c *PlexClient) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

type plexTrack struct {
	ID     string `xml:"ratingKey,attr"`
	Title  string `xml:"title,attr"`
	Artist string `xml:"grandparentTitle,attr"`
}

type plexPlaylist struct {
	ID    string `xml:"ratingKey,attr"`
	Title string `xml:"title,attr"`
}

type plexContainer struct {
	XMLName   xml.Name       `xml:"MediaContainer"`
	Tracks    []plexTrack    `xml:"Track"`
	Playlists []plexPlaylist `xml:"Playlist"`
}

type plexServerInfo struct {
	XMLName           xml.Name `xml:"MediaContainer"`
	FriendlyName      string   `xml:"friendlyName,attr"`
	MachineIdentifier string   `xml:"machineIdentifier,attr"`
}

// doRequest performs a rate-limited, token-authenticated request and decodes
// the XML MediaContainer response into result when result is non-nil.
func (c *PlexClient) doRequest(ctx context.Context, method, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCatalogConnect, err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("X-Plex-Token", c.token)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCatalogRequest, err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCatalogConnect, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", shared.ErrCatalogAuth, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s %s: status %d", shared.ErrCatalogRequest, method, path, resp.StatusCode)
	}

	if result != nil {
		if err := xml.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: decode: %v", shared.ErrCatalogRequest, err)
		}
	}

	return nil
}

// Ping verifies connectivity and token validity against the server root.
// Fills in the machine identifier when the config left server_id empty.
func (c *PlexClient) Ping(ctx context.Context) error {
	var info plexServerInfo
	if err := c.doRequest(ctx, http.MethodGet, "/", nil, &info); err != nil {
		return err
	}
	if c.serverID == "" {
		c.serverID = info.MachineIdentifier
	}
	c.logger.Debug("connected to plex", "server", info.FriendlyName, "id", info.MachineIdentifier)
	return nil
}

// SearchByTitle queries the music section for tracks matching the title.
// Result order is whatever the server returned.
func (c *PlexClient) SearchByTitle(ctx context.Context, title string) ([]models.CatalogTrack, error) {
	params := url.Values{}
	params.Set("query", title)
	params.Set("type", plexTrackType)

	var container plexContainer
	path := fmt.Sprintf("/library/sections/%d/search", c.sectionID)
	if err := c.doRequest(ctx, http.MethodGet, path, params, &container); err != nil {
		return nil, err
	}

	tracks := make([]models.CatalogTrack, 0, len(container.Tracks))
	for _, t := range container.Tracks {
		tracks = append(tracks, models.CatalogTrack{ID: t.ID, Title: t.Title, Artist: t.Artist})
	}
	return tracks, nil
}

// GetPlaylist resolves a playlist by name and loads its member track IDs.
func (c *PlexClient) GetPlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	found, err := c.findPlaylist(ctx, name)
	if err != nil {
		return nil, err
	}

	items, err := c.playlistItems(ctx, found.ID)
	if err != nil {
		return nil, err
	}

	pl := &models.Playlist{ID: found.ID, Name: found.Title}
	for _, t := range items {
		pl.TrackIDs = append(pl.TrackIDs, t.ID)
	}
	return pl, nil
}

// PlaylistTracks returns a playlist's member tracks with full metadata.
func (c *PlexClient) PlaylistTracks(ctx context.Context, name string) ([]models.CatalogTrack, error) {
	found, err := c.findPlaylist(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.playlistItems(ctx, found.ID)
}

func (c *PlexClient) findPlaylist(ctx context.Context, name string) (*plexPlaylist, error) {
	var container plexContainer
	if err := c.doRequest(ctx, http.MethodGet, "/playlists", nil, &container); err != nil {
		return nil, err
	}
	for i := range container.Playlists {
		if container.Playlists[i].Title == name {
			return &container.Playlists[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
}

func (c *PlexClient) playlistItems(ctx context.Context, playlistID string) ([]models.CatalogTrack, error) {
	var items plexContainer
	if err := c.doRequest(ctx, http.MethodGet, "/playlists/"+playlistID+"/items", nil, &items); err != nil {
		return nil, err
	}
	tracks := make([]models.CatalogTrack, 0, len(items.Tracks))
	for _, t := range items.Tracks {
		tracks = append(tracks, models.CatalogTrack{ID: t.ID, Title: t.Title, Artist: t.Artist})
	}
	return tracks, nil
}

// CreatePlaylist creates an audio playlist seeded with the given tracks.
func (c *PlexClient) CreatePlaylist(ctx context.Context, name string, trackIDs []string) (*models.Playlist, error) {
	params := url.Values{}
	params.Set("type", "audio")
	params.Set("title", name)
	params.Set("smart", "0")
	params.Set("uri", c.metadataURI(trackIDs))

	var container plexContainer
	if err := c.doRequest(ctx, http.MethodPost, "/playlists", params, &container); err != nil {
		return nil, err
	}
	if len(container.Playlists) == 0 {
		return nil, fmt.Errorf("%w: no playlist returned from create", shared.ErrCatalogRequest)
	}

	created := container.Playlists[0]
	c.logger.Info("created playlist", "name", created.Title, "id", created.ID, "tracks", len(trackIDs))
	return &models.Playlist{ID: created.ID, Name: created.Title, TrackIDs: trackIDs}, nil
}

// AppendToPlaylist adds tracks one by one, preserving order. On failure it
// reports how many were already applied so the caller can distinguish a
// clean failure from a partial one.
func (c *PlexClient) AppendToPlaylist(ctx context.Context, playlistID string, trackIDs []string) (int, error) {
	appended := 0
	for _, id := range trackIDs {
		params := url.Values{}
		params.Set("uri", c.metadataURI([]string{id}))
		if err := c.doRequest(ctx, http.MethodPut, "/playlists/"+playlistID+"/items", params, nil); err != nil {
			if appended > 0 {
				return appended, fmt.Errorf("%w: %d of %d applied: %v", shared.ErrPartialAppend, appended, len(trackIDs), err)
			}
			return 0, err
		}
		appended++
	}
	return appended, nil
}

// TagAndRate sets the sync mood tag and the maximum rating on a track.
// Plex treats both as idempotent upserts.
func (c *PlexClient) TagAndRate(ctx context.Context, trackID string) error {
	rateParams := url.Values{}
	rateParams.Set("key", trackID)
	rateParams.Set("identifier", "com.plexapp.plugins.library")
	rateParams.Set("rating", plexMaxRating)
	if err := c.doRequest(ctx, http.MethodPut, "/:/rate", rateParams, nil); err != nil {
		return err
	}

	tagParams := url.Values{}
	tagParams.Set("type", plexTrackType)
	tagParams.Set("id", trackID)
	tagParams.Set("mood[0].tag.tag", plexTag)
	path := fmt.Sprintf("/library/sections/%d/all", c.sectionID)
	return c.doRequest(ctx, http.MethodPut, path, tagParams, nil)
}

// metadataURI builds the server:// library URI Plex expects for playlist
// create and append operations.
func (c *PlexClient) metadataURI(trackIDs []string) string {
	return fmt.Sprintf("server://%s/com.plexapp.plugins.library/library/metadata/%s",
		c.serverID, strings.Join(trackIDs, ","))
}

// IsFatal reports whether a catalog error must abort the run before any
// mutation is attempted.
func IsFatal(err error) bool {
	return errors.Is(err, shared.ErrCatalogAuth) || errors.Is(err, shared.ErrCatalogConnect)
}
