package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stationsync/internal/shared"
)

const searchXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="2">
	<Track ratingKey="101" title="Alive" grandparentTitle="Big Daddy Weave"/>
	<Track ratingKey="102" title="Alive (Acoustic)" grandparentTitle="Big Daddy Weave"/>
</MediaContainer>`

const playlistsXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="1">
	<Playlist ratingKey="7" title="Radio Finds"/>
</MediaContainer>`

const itemsXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="1">
	<Track ratingKey="101" title="Alive" grandparentTitle="Big Daddy Weave"/>
</MediaContainer>`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*PlexClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewPlexClient(shared.PlexConfig{
		URL:       srv.URL,
		Token:     "test-token",
		SectionID: 3,
		ServerID:  "machine-1",
	}, nil)
	return client, srv
}

func TestSearchByTitle(t *testing.T) {
	var gotPath, gotToken, gotType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("X-Plex-Token")
		gotType = r.URL.Query().Get("type")
		fmt.Fprint(w, searchXML)
	})

	tracks, err := client.SearchByTitle(context.Background(), "Alive")
	if err != nil {
		t.Fatalf("SearchByTitle returned error: %v", err)
	}
	if gotPath != "/library/sections/3/search" {
		t.Errorf("path = %q", gotPath)
	}
	if gotToken != "test-token" {
		t.Errorf("token = %q", gotToken)
	}
	if gotType != "10" {
		t.Errorf("type = %q, want track type", gotType)
	}
	if len(tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(tracks))
	}
	if tracks[0].ID != "101" || tracks[0].Artist != "Big Daddy Weave" {
		t.Errorf("track = %+v", tracks[0])
	}
}

func TestAuthFailureIsFatal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.Ping(context.Background())
	if !errors.Is(err, shared.ErrCatalogAuth) {
		t.Fatalf("err = %v, want ErrCatalogAuth", err)
	}
	if !IsFatal(err) {
		t.Error("auth failure must be fatal")
	}
}

func TestConnectFailureIsFatal(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	err := client.Ping(context.Background())
	if !errors.Is(err, shared.ErrCatalogConnect) {
		t.Fatalf("err = %v, want ErrCatalogConnect", err)
	}
	if !IsFatal(err) {
		t.Error("connect failure must be fatal")
	}
}

func TestRequestFailureIsNotFatal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SearchByTitle(context.Background(), "Alive")
	if !errors.Is(err, shared.ErrCatalogRequest) {
		t.Fatalf("err = %v, want ErrCatalogRequest", err)
	}
	if IsFatal(err) {
		t.Error("a plain request failure must not abort the run")
	}
}

func TestGetPlaylist(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlists":
			fmt.Fprint(w, playlistsXML)
		case "/playlists/7/items":
			fmt.Fprint(w, itemsXML)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	pl, err := client.GetPlaylist(context.Background(), "Radio Finds")
	if err != nil {
		t.Fatalf("GetPlaylist returned error: %v", err)
	}
	if pl.ID != "7" || len(pl.TrackIDs) != 1 || pl.TrackIDs[0] != "101" {
		t.Errorf("playlist = %+v", pl)
	}
}

func TestGetPlaylistNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, playlistsXML)
	})

	_, err := client.GetPlaylist(context.Background(), "No Such Playlist")
	if !errors.Is(err, shared.ErrPlaylistNotFound) {
		t.Fatalf("err = %v, want ErrPlaylistNotFound", err)
	}
}

func TestCreatePlaylistSendsMetadataURI(t *testing.T) {
	var gotURI string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.Query().Get("uri")
		fmt.Fprint(w, playlistsXML)
	})

	pl, err := client.CreatePlaylist(context.Background(), "Radio Finds", []string{"101", "102"})
	if err != nil {
		t.Fatalf("CreatePlaylist returned error: %v", err)
	}
	want := "server://machine-1/com.plexapp.plugins.library/library/metadata/101,102"
	if gotURI != want {
		t.Errorf("uri = %q, want %q", gotURI, want)
	}
	if pl.ID != "7" {
		t.Errorf("playlist id = %q", pl.ID)
	}
}

func TestAppendToPlaylistPartialFailure(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	})

	appended, err := client.AppendToPlaylist(context.Background(), "7", []string{"101", "102", "103"})
	if !errors.Is(err, shared.ErrPartialAppend) {
		t.Fatalf("err = %v, want ErrPartialAppend", err)
	}
	if appended != 1 {
		t.Errorf("appended = %d, want 1 applied before failure", appended)
	}
}

func TestPingFillsServerID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<MediaContainer friendlyName="plex" machineIdentifier="abc123"/>`)
	})
	client.serverID = ""

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if client.serverID != "abc123" {
		t.Errorf("serverID = %q, want abc123", client.serverID)
	}
}
