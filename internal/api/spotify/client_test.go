package spotify

import "testing"

func TestIdFromURL(t *testing.T) {
	id, err := idFromURL("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc", "playlist")
	if err != nil {
		t.Fatalf("idFromURL failed: %v", err)
	}
	if string(id) != "37i9dQZF1DXcBWIGoYBM5M" {
		t.Errorf("unexpected id %q", id)
	}

	if _, err := idFromURL("https://open.spotify.com/album/xyz", "playlist"); err == nil {
		t.Error("expected error for mismatched resource kind")
	}
	if _, err := idFromURL("https://open.spotify.com", "playlist"); err == nil {
		t.Error("expected error for short URL")
	}
}

func TestIsSpotifyURL(t *testing.T) {
	if !IsSpotifyURL("https://open.spotify.com/track/abc") {
		t.Error("spotify URL not recognized")
	}
	if IsSpotifyURL("https://www.youtube.com/watch?v=abc") {
		t.Error("youtube URL misclassified as spotify")
	}
}

func TestSearchTrackBuildsSearchURL(t *testing.T) {
	track := searchTrack("My Song", "Artist", 215)
	if track.Title != "Artist - My Song" {
		t.Errorf("unexpected title %q", track.Title)
	}
	if track.URL != "ytsearch1:Artist - My Song" {
		t.Errorf("unexpected URL %q", track.URL)
	}
	if track.Duration != 215 {
		t.Errorf("unexpected duration %d", track.Duration)
	}
}
