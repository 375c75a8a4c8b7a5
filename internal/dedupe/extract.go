package dedupe

import (
	"regexp"
	"strings"
)

// cjkTitleBracket matches the first 《...》, 「...」 or 【...】 span; uploads in
// Chinese and Japanese usually put the song name inside one of these.
var cjkTitleBracket = regexp.MustCompile(`[《「【](.+?)[》」】]`)

// songSeparators is the fixed priority order of "artist separator song"
// delimiters tried when no CJK bracket is present.
var songSeparators = []string{" - ", " | ", " – ", "：", ": "}

// ExtractSongName isolates the likely song-name portion of a title, assuming
// the common "Artist - Song Name" layout. It returns the title unchanged when
// no recognizable pattern is found. Lowercasing is left to Normalize.
func ExtractSongName(title string) string {
	if title == "" {
		return ""
	}

	if match := cjkTitleBracket.FindStringSubmatch(title); match != nil {
		return strings.TrimSpace(match[1])
	}

	for _, sep := range songSeparators {
		if strings.Contains(title, sep) {
			parts := strings.SplitN(title, sep, 2)
			return strings.TrimSpace(parts[1])
		}
	}

	return title
}
