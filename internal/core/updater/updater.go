package updater

import (
	"encoding/json"
	"fmt"
	"net/http"

	version "github.com/hashicorp/go-version"

	"tube-downloader/internal/config"
	"tube-downloader/internal/shared"
)

const defaultRepo = "tube-downloader/tube-downloader"

type versionInfo struct {
	Version string `json:"version"`
}

// CheckForUpdates compares the running version against the repo's published
// version.json and prints a notice when a newer release exists.
func CheckForUpdates(cfg *config.Config, currentVersion string) {
	if cfg.DisableUpdateCheck {
		return
	}

	repo := defaultRepo
	if cfg.UpdateRepo != "" {
		repo = cfg.UpdateRepo
	}

	rawURL := fmt.Sprintf("https://raw.githubusercontent.com/%s/main/version/version.json", repo)
	resp, err := http.Get(rawURL)
	if err != nil {
		shared.ColorWarning.Printf("⚠️ Update check failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		shared.ColorWarning.Printf("⚠️ Update check failed: status %d\n", resp.StatusCode)
		return
	}

	var remote versionInfo
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		shared.ColorWarning.Printf("⚠️ Failed to decode remote version info: %v\n", err)
		return
	}

	if isNewerVersion(remote.Version, currentVersion) {
		shared.ColorWarning.Printf("🚨 A newer version (%s) is available, you are running %s.\n", remote.Version, currentVersion)
		shared.ColorInfo.Printf("See https://github.com/%s/releases for the latest release.\n", repo)
	}
}

// isNewerVersion compares two versions using semantic versioning
func isNewerVersion(latest, current string) bool {
	vLatest, err := version.NewVersion(latest)
	if err != nil {
		return false
	}
	vCurrent, err := version.NewVersion(current)
	if err != nil {
		return false
	}
	return vLatest.GreaterThan(vCurrent)
}
