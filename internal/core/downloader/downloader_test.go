package downloader

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"tube-downloader/internal/shared"
)

func TestSplitArtistTitle(t *testing.T) {
	tests := []struct {
		full, artist, title string
	}{
		{"Artist - My Song", "Artist", "My Song"},
		{"Artist - My Song - Acoustic", "Artist", "My Song - Acoustic"},
		{"Just A Title", "", "Just A Title"},
		{" - leading separator", "", " - leading separator"},
	}
	for _, tt := range tests {
		artist, title := splitArtistTitle(tt.full)
		if artist != tt.artist || title != tt.title {
			t.Errorf("splitArtistTitle(%q) = (%q, %q), want (%q, %q)",
				tt.full, artist, title, tt.artist, tt.title)
		}
	}
}

func TestDetectImageFormat(t *testing.T) {
	if got := detectImageFormat([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}); got != "image/png" {
		t.Errorf("png detected as %q", got)
	}
	if got := detectImageFormat([]byte{0xFF, 0xD8, 0xFF, 0xE0}); got != "image/jpeg" {
		t.Errorf("jpeg detected as %q", got)
	}
	if got := detectImageFormat([]byte("RIFF0000WEBP")); got != "image/webp" {
		t.Errorf("webp detected as %q", got)
	}
	if got := detectImageFormat([]byte{0x00}); got != "image/jpeg" {
		t.Errorf("fallback should be jpeg, got %q", got)
	}
}

func TestWriteZipFiltersNonMedia(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.mp3", "two.flac", "notes.txt", "cover.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	count, err := WriteZip(dir, &buf)
	if err != nil {
		t.Fatalf("WriteZip failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 media files in zip, got %d", count)
	}

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("produced archive is not readable: %v", err)
	}
	names := map[string]bool{}
	for _, f := range reader.File {
		names[f.Name] = true
	}
	if !names["one.mp3"] || !names["two.flac"] {
		t.Errorf("media files missing from archive: %v", names)
	}
	if names["notes.txt"] || names["cover.jpg"] {
		t.Errorf("non-media files leaked into archive: %v", names)
	}
}

func TestStats(t *testing.T) {
	results := []shared.DownloadResult{
		{Title: "a", Success: true, Filename: "a.mp3"},
		{Title: "b", Error: "network down"},
		{Title: "c", Success: true, Filename: "c.mp3"},
	}
	stats := Stats(results)
	if stats.SuccessCount != 2 || stats.FailedCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(stats.FailedItems) != 1 || stats.FailedItems[0] != "b: network down" {
		t.Errorf("unexpected failed items: %v", stats.FailedItems)
	}
}
