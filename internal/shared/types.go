package shared

import "fmt"

// Track is one playable item enumerated from a submitted URL. Only Title is
// required by the duplicate detector; everything else is carried for the
// downloader and the web UI.
type Track struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	URL               string `json:"url"`
	Duration          int    `json:"duration"`
	Thumbnail         string `json:"thumbnail,omitempty"`
	DurationFormatted string `json:"duration_formatted,omitempty"`
}

// DownloadResult describes the outcome of downloading a single track
type DownloadResult struct {
	Title    string `json:"title"`
	Success  bool   `json:"success"`
	Filename string `json:"filename,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DownloadStats aggregates a batch download run
type DownloadStats struct {
	SuccessCount int
	SkippedCount int
	FailedCount  int
	FailedItems  []string
}

// Titles extracts the title column from a batch of tracks
func Titles(tracks []Track) []string {
	titles := make([]string, len(tracks))
	for i, track := range tracks {
		titles[i] = track.Title
	}
	return titles
}

// FormatDuration renders a duration in seconds as M:SS
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ErrDownloadCancelled is returned when the user explicitly cancels a download operation.
var ErrDownloadCancelled = fmt.Errorf("download cancelled by user")

// ErrNoItemsSelected is returned when no items are selected for download.
var ErrNoItemsSelected = fmt.Errorf("no items selected for download")
