package dedupe

import (
	"regexp"
	"strings"
)

// noiseRules is the ordered list of decoration patterns stripped from titles
// during normalization. Order matters: each rule runs on the output of the
// previous one, so the list must stay a fixed sequence rather than a map.
var noiseRules = []*regexp.Regexp{
	// English tags, bracketed
	regexp.MustCompile(`\(official\s*(music\s*)?video\)`),
	regexp.MustCompile(`\(official\s*audio\)`),
	regexp.MustCompile(`\(lyric\s*video\)`),
	regexp.MustCompile(`\(lyrics?\)`),
	regexp.MustCompile(`\(mv\)`),
	regexp.MustCompile(`\(audio\)`),
	regexp.MustCompile(`\[official\s*(music\s*)?video\]`),
	regexp.MustCompile(`\[official\s*audio\]`),
	regexp.MustCompile(`\[lyric\s*video\]`),
	regexp.MustCompile(`\[lyrics?\]`),
	regexp.MustCompile(`\[mv\]`),
	regexp.MustCompile(`\[audio\]`),

	// English tags, bare
	regexp.MustCompile(`official\s*music\s*video`),
	regexp.MustCompile(`official\s*video`),
	regexp.MustCompile(`official\s*audio`),
	regexp.MustCompile(`lyric\s*video`),

	// Everything after a pipe
	regexp.MustCompile(`\|.*$`),

	// Year followed by MV markers
	regexp.MustCompile(`\d{4}\s*(mv|music\s*video)`),

	// Quality markers
	regexp.MustCompile(`hd|4k|1080p|720p`),

	// Credited-artist clauses
	regexp.MustCompile(`feat\.?\s*[\w\s]+`),
	regexp.MustCompile(`ft\.?\s*[\w\s]+`),
	regexp.MustCompile(`prod\.?\s*[\w\s]+`),

	// CJK bracketed spans, removed whole
	regexp.MustCompile(`【.*?】`),
	regexp.MustCompile(`「.*?」`),
	regexp.MustCompile(`『.*?』`),
	regexp.MustCompile(`《.*?》`),

	// Chinese/Japanese noise vocabulary (closed set)
	regexp.MustCompile(`动态歌词`),
	regexp.MustCompile(`動態歌詞`),
	regexp.MustCompile(`歌词版?`),
	regexp.MustCompile(`歌詞版?`),
	regexp.MustCompile(`完整版`),
	regexp.MustCompile(`高清版?`),
	regexp.MustCompile(`高音質`),
	regexp.MustCompile(`高音质`),
	regexp.MustCompile(`無損`),
	regexp.MustCompile(`无损`),
	regexp.MustCompile(`lyrics?`),
	regexp.MustCompile(`pinyin`),
	regexp.MustCompile(`拼音`),
	regexp.MustCompile(`viet\s*sub`),
	regexp.MustCompile(`vietsub`),
	regexp.MustCompile(`中文字幕`),
	regexp.MustCompile(`附詞`),
	regexp.MustCompile(`附词`),
	regexp.MustCompile(`純音樂`),
	regexp.MustCompile(`纯音乐`),
	regexp.MustCompile(`伴奏`),
	regexp.MustCompile(`cover`),
	regexp.MustCompile(`翻唱`),
	regexp.MustCompile(`live`),
	regexp.MustCompile(`現場`),
	regexp.MustCompile(`现场`),
	regexp.MustCompile(`演唱會`),
	regexp.MustCompile(`演唱会`),
}

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	edgePunctuation = regexp.MustCompile(`^[\s\-\|:]+|[\s\-\|:]+$`)
)

// Normalize lowercases a title and strips recognized decoration: bracketed
// and bare upload tags, quality markers, credit clauses, CJK bracket spans
// and a fixed CJK noise vocabulary. A title made entirely of noise
// normalizes to the empty string, which callers must treat as unscorable.
func Normalize(title string) string {
	if title == "" {
		return ""
	}

	normalized := strings.TrimSpace(strings.ToLower(title))

	for _, rule := range noiseRules {
		normalized = rule.ReplaceAllString(normalized, "")
	}

	normalized = strings.TrimSpace(whitespaceRun.ReplaceAllString(normalized, " "))
	normalized = edgePunctuation.ReplaceAllString(normalized, "")

	return normalized
}
