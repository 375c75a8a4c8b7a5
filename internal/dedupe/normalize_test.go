package dedupe

import "testing"

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q, want empty", got)
	}
}

func TestNormalizeRemovesUploadTags(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Song Title (Official Music Video)", "song title"},
		{"Song Title (Official Video)", "song title"},
		{"Song Title [Official Audio]", "song title"},
		{"Song Title (Lyric Video)", "song title"},
		{"Song Title [Lyrics]", "song title"},
		{"Song Title (MV)", "song title"},
		{"Song Title Official Music Video", "song title"},
		{"Song Title lyric video", "song title"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTruncatesAtPipe(t *testing.T) {
	if got := Normalize("Artist - Song | Official Channel Upload"); got != "artist - song" {
		t.Errorf("got %q, want %q", got, "artist - song")
	}
}

func TestNormalizeRemovesQualityMarkers(t *testing.T) {
	if got := Normalize("My Song 1080p"); got != "my song" {
		t.Errorf("got %q, want %q", got, "my song")
	}
	if got := Normalize("My Song 4k"); got != "my song" {
		t.Errorf("got %q, want %q", got, "my song")
	}
}

func TestNormalizeRemovesCreditClauses(t *testing.T) {
	if got := Normalize("My Song feat. Somebody Else"); got != "my song" {
		t.Errorf("got %q, want %q", got, "my song")
	}
	if got := Normalize("My Song ft Somebody"); got != "my song" {
		t.Errorf("got %q, want %q", got, "my song")
	}
}

func TestNormalizeRemovesCJKBracketSpans(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"歌手【動態歌詞】", "歌手"},
		{"歌手「完整版」", "歌手"},
		{"歌手《高音質》", "歌手"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeRemovesCJKNoiseWords(t *testing.T) {
	if got := Normalize("我的歌 伴奏"); got != "我的歌" {
		t.Errorf("got %q, want %q", got, "我的歌")
	}
	if got := Normalize("我的歌 无损"); got != "我的歌" {
		t.Errorf("got %q, want %q", got, "我的歌")
	}
}

func TestNormalizeAllNoiseBecomesEmpty(t *testing.T) {
	cases := []string{
		"(Official Music Video)",
		"【動態歌詞】",
		"HD",
		"Lyrics",
	}
	for _, in := range cases {
		if got := Normalize(in); got != "" {
			t.Errorf("Normalize(%q) = %q, want empty", in, got)
		}
	}
}

func TestNormalizeCollapsesWhitespaceAndTrimsEdges(t *testing.T) {
	if got := Normalize("  My   Song  -  "); got != "my song" {
		t.Errorf("got %q, want %q", got, "my song")
	}
}
