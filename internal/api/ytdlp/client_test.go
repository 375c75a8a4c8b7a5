package ytdlp

import "testing"

func TestParseDumpPlaylist(t *testing.T) {
	data := []byte(`{
		"_type": "playlist",
		"id": "PL123",
		"title": "Test Playlist",
		"entries": [
			{"id": "abc", "title": "First Song", "url": "https://www.youtube.com/watch?v=abc", "duration": 215.0},
			{"id": "def", "title": "Second Song", "duration": 180.5},
			{"id": "", "title": ""}
		]
	}`)

	tracks, err := parseDump(data, "https://www.youtube.com/playlist?list=PL123")
	if err != nil {
		t.Fatalf("parseDump failed: %v", err)
	}

	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks (empty entry skipped), got %d", len(tracks))
	}
	if tracks[0].Title != "First Song" || tracks[0].Duration != 215 {
		t.Errorf("unexpected first track: %+v", tracks[0])
	}
	if tracks[1].URL != "https://www.youtube.com/watch?v=def" {
		t.Errorf("missing URL should fall back to watch URL, got %q", tracks[1].URL)
	}
}

func TestParseDumpSingleVideo(t *testing.T) {
	data := []byte(`{"id": "xyz", "title": "Solo Video", "duration": 95.0, "thumbnail": "https://img.example/xyz.jpg"}`)

	tracks, err := parseDump(data, "https://www.youtube.com/watch?v=xyz")
	if err != nil {
		t.Fatalf("parseDump failed: %v", err)
	}

	if len(tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(tracks))
	}
	if tracks[0].URL != "https://www.youtube.com/watch?v=xyz" {
		t.Errorf("single video should keep the source URL, got %q", tracks[0].URL)
	}
	if tracks[0].Duration != 95 {
		t.Errorf("unexpected duration %d", tracks[0].Duration)
	}
}

func TestParseDumpMalformed(t *testing.T) {
	if _, err := parseDump([]byte("not json"), "url"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestFormatArgs(t *testing.T) {
	for _, format := range []string{"mp3", "m4a", "flac", "mp4", "mp4_1080"} {
		if _, err := formatArgs(format); err != nil {
			t.Errorf("formatArgs(%q) failed: %v", format, err)
		}
		if _, err := FormatExtension(format); err != nil {
			t.Errorf("FormatExtension(%q) failed: %v", format, err)
		}
	}
	if _, err := formatArgs("wav"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
