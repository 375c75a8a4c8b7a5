package navidrome

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	subsonic "github.com/delucks/go-subsonic"

	"tube-downloader/internal/shared"
)

const clientName = "tube-downloader"

// Client talks to a Navidrome (Subsonic-compatible) server so downloaded
// tracks can be collected into a server-side playlist after the library scan
// picks them up.
type Client struct {
	URL      string
	Username string
	Password string
	Client   subsonic.Client
	Salt     string
	Token    string
}

// NewClient creates a new Navidrome client
func NewClient(url, username, password string) *Client {
	return &Client{
		URL:      strings.TrimRight(url, "/"),
		Username: username,
		Password: password,
	}
}

// Authenticate prepares the salted token used by the raw REST calls and logs
// in the underlying subsonic client.
func (n *Client) Authenticate() error {
	salt, err := randomSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	n.Salt = salt
	n.Token = saltedToken(n.Password, n.Salt)

	n.Client = subsonic.Client{
		Client:       http.DefaultClient,
		BaseUrl:      n.URL,
		User:         n.Username,
		ClientName:   clientName,
		PasswordAuth: true,
	}
	return n.Client.Authenticate(n.Password)
}

// SearchTrack looks up a downloaded track on the server. An exact
// case-insensitive title match wins; otherwise the first result is returned.
func (n *Client) SearchTrack(title string) (*subsonic.Child, error) {
	result, err := n.Client.Search2(title, map[string]string{"songCount": "5"})
	if err != nil {
		return nil, fmt.Errorf("search failed for %q: %w", title, err)
	}
	if result == nil || len(result.Song) == 0 {
		return nil, fmt.Errorf("track %q not found on server", title)
	}

	for _, song := range result.Song {
		if strings.EqualFold(song.Title, title) {
			return song, nil
		}
	}
	return result.Song[0], nil
}

// FindPlaylist returns the ID of an existing playlist by name, or "" when no
// playlist with that name exists.
func (n *Client) FindPlaylist(name string) (string, error) {
	playlists, err := n.Client.GetPlaylists(map[string]string{})
	if err != nil {
		return "", fmt.Errorf("failed to list playlists: %w", err)
	}
	for _, playlist := range playlists {
		if playlist.Name == name {
			return playlist.ID, nil
		}
	}
	return "", nil
}

// CreatePlaylist creates an empty playlist and returns its ID
func (n *Client) CreatePlaylist(name string) (string, error) {
	params := url.Values{}
	params.Set("name", name)
	if err := n.restCall("createPlaylist", params); err != nil {
		return "", err
	}

	// The create response shape varies across server versions, so the ID is
	// resolved with a follow-up lookup.
	id, err := n.FindPlaylist(name)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("playlist %q was not created", name)
	}
	return id, nil
}

// AddTracks appends song IDs to an existing playlist
func (n *Client) AddTracks(playlistID string, songIDs []string) error {
	if len(songIDs) == 0 {
		return nil
	}
	params := url.Values{}
	params.Set("playlistId", playlistID)
	for _, id := range songIDs {
		params.Add("songIdToAdd", id)
	}
	return n.restCall("updatePlaylist", params)
}

// ExportTracks pushes a batch of downloaded titles into the named playlist,
// creating it when missing. Titles not yet indexed by the server are skipped.
// It returns the number of tracks added.
func (n *Client) ExportTracks(playlistName string, titles []string, debug bool) (int, error) {
	playlistID, err := n.FindPlaylist(playlistName)
	if err != nil {
		return 0, err
	}
	if playlistID == "" {
		playlistID, err = n.CreatePlaylist(playlistName)
		if err != nil {
			return 0, err
		}
	}

	var songIDs []string
	for _, title := range titles {
		song, err := n.SearchTrack(title)
		if err != nil {
			shared.DebugPrint(debug, "skipping %q: %v", title, err)
			continue
		}
		songIDs = append(songIDs, song.ID)
	}

	if err := n.AddTracks(playlistID, songIDs); err != nil {
		return 0, err
	}
	return len(songIDs), nil
}

// restCall issues a raw Subsonic REST request for endpoints the library
// client does not cover and checks the embedded status field.
func (n *Client) restCall(endpoint string, params url.Values) error {
	params.Set("u", n.Username)
	params.Set("t", n.Token)
	params.Set("s", n.Salt)
	params.Set("v", "1.16.1")
	params.Set("c", clientName)
	params.Set("f", "json")

	callURL := fmt.Sprintf("%s/rest/%s.view?%s", n.URL, endpoint, params.Encode())

	resp, err := http.Get(callURL)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed: status %d, body: %s", endpoint, resp.StatusCode, string(body))
	}

	var subsonicResponse struct {
		SubsonicResponse struct {
			Status string `json:"status"`
			Error  struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		} `json:"subsonic-response"`
	}
	if err := json.Unmarshal(body, &subsonicResponse); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
	}
	if subsonicResponse.SubsonicResponse.Status == "failed" {
		return fmt.Errorf("%s failed: %s (code %d)", endpoint,
			subsonicResponse.SubsonicResponse.Error.Message,
			subsonicResponse.SubsonicResponse.Error.Code)
	}
	return nil
}

// saltedToken derives the Subsonic auth token from password and salt
func saltedToken(password, salt string) string {
	hasher := md5.New()
	hasher.Write([]byte(password + salt))
	return hex.EncodeToString(hasher.Sum(nil))
}

func randomSalt() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
