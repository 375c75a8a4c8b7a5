package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"tube-downloader/internal/shared"
)

// Client resolves Spotify playlist/album/track URLs into title metadata. The
// tracks it produces carry yt-dlp search URLs, so the regular downloader can
// fetch them from YouTube.
type Client struct {
	id     string
	secret string
	client *spotify.Client
}

// NewClient creates an unauthenticated Spotify client
func NewClient(clientID, clientSecret string) *Client {
	return &Client{id: clientID, secret: clientSecret}
}

// IsSpotifyURL reports whether a submitted URL points at Spotify
func IsSpotifyURL(url string) bool {
	return strings.Contains(url, "spotify.com")
}

// Authenticate obtains an app token via the client-credentials flow
func (c *Client) Authenticate(ctx context.Context) error {
	if c.id == "" || c.secret == "" {
		return fmt.Errorf("spotify client ID and secret are not configured")
	}
	config := &clientcredentials.Config{
		ClientID:     c.id,
		ClientSecret: c.secret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return fmt.Errorf("spotify authentication failed: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	c.client = spotify.New(httpClient)
	return nil
}

// ResolveURL enumerates the tracks behind a Spotify URL. The second return
// value is the playlist or album name ("" for single tracks).
func (c *Client) ResolveURL(ctx context.Context, url string) ([]shared.Track, string, error) {
	switch {
	case strings.Contains(url, "/playlist/"):
		return c.playlistTracks(ctx, url)
	case strings.Contains(url, "/album/"):
		return c.albumTracks(ctx, url)
	case strings.Contains(url, "/track/"):
		track, err := c.singleTrack(ctx, url)
		if err != nil {
			return nil, "", err
		}
		return []shared.Track{track}, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported spotify URL: %s", url)
	}
}

func (c *Client) playlistTracks(ctx context.Context, url string) ([]shared.Track, string, error) {
	id, err := idFromURL(url, "playlist")
	if err != nil {
		return nil, "", err
	}

	playlist, err := c.client.GetPlaylist(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch playlist: %w", err)
	}

	var tracks []shared.Track
	for _, item := range playlist.Tracks.Tracks {
		if item.Track.Name == "" || len(item.Track.Artists) == 0 {
			continue
		}
		tracks = append(tracks, searchTrack(item.Track.Name, item.Track.Artists[0].Name, int(item.Track.Duration/1000)))
	}
	return tracks, playlist.Name, nil
}

func (c *Client) albumTracks(ctx context.Context, url string) ([]shared.Track, string, error) {
	id, err := idFromURL(url, "album")
	if err != nil {
		return nil, "", err
	}

	album, err := c.client.GetAlbum(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch album: %w", err)
	}

	var tracks []shared.Track
	for _, track := range album.Tracks.Tracks {
		if track.Name == "" || len(track.Artists) == 0 {
			continue
		}
		tracks = append(tracks, searchTrack(track.Name, track.Artists[0].Name, int(track.Duration/1000)))
	}
	return tracks, album.Name, nil
}

func (c *Client) singleTrack(ctx context.Context, url string) (shared.Track, error) {
	id, err := idFromURL(url, "track")
	if err != nil {
		return shared.Track{}, err
	}

	track, err := c.client.GetTrack(ctx, id)
	if err != nil {
		return shared.Track{}, fmt.Errorf("failed to fetch track: %w", err)
	}
	if len(track.Artists) == 0 {
		return shared.Track{}, fmt.Errorf("track %s has no artist", id)
	}
	return searchTrack(track.Name, track.Artists[0].Name, int(track.Duration/1000)), nil
}

// searchTrack builds a Track whose URL is a yt-dlp search query for the best
// YouTube match of "artist - title".
func searchTrack(name, artist string, durationSec int) shared.Track {
	title := artist + " - " + name
	return shared.Track{
		ID:       "",
		Title:    title,
		URL:      "ytsearch1:" + title,
		Duration: durationSec,
	}
}

// idFromURL pulls the resource ID out of an open.spotify.com URL
func idFromURL(url, kind string) (spotify.ID, error) {
	parts := strings.Split(url, "/")
	if len(parts) < 5 || parts[3] != kind {
		return "", fmt.Errorf("invalid spotify %s URL: %s", kind, url)
	}
	id := strings.Split(parts[4], "?")[0]
	if id == "" {
		return "", fmt.Errorf("invalid spotify %s URL: %s", kind, url)
	}
	return spotify.ID(id), nil
}
