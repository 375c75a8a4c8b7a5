package ytdlp

// infoDump mirrors the fields we consume from yt-dlp's --dump-single-json
// output. Playlists carry Entries; single videos carry the top-level fields.
type infoDump struct {
	Type       string      `json:"_type,omitempty"`
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	WebpageURL string      `json:"webpage_url,omitempty"`
	Duration   float64     `json:"duration,omitempty"`
	Thumbnail  string      `json:"thumbnail,omitempty"`
	Entries    []entryDump `json:"entries,omitempty"`
}

type entryDump struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url,omitempty"`
	WebpageURL string  `json:"webpage_url,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Thumbnail  string  `json:"thumbnail,omitempty"`
}
