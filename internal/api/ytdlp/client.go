package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tube-downloader/internal/shared"
)

const (
	defaultBinary       = "yt-dlp"
	defaultPlaylistSpan = "1-200"

	// Metadata extraction is throttled to stay polite with the upstream
	// service; downloads are paced by the semaphore in the downloader.
	extractRateLimit = 500 * time.Millisecond
	extractBurst     = 2
)

// Client wraps the yt-dlp binary. It is the metadata source and media
// fetcher for everything the duplicate detector and downloader consume.
type Client struct {
	binPath     string
	ffmpegDir   string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a yt-dlp client. binPath may be empty to use the binary
// from PATH; ffmpegDir may be empty when ffmpeg is already on PATH.
func NewClient(binPath, ffmpegDir string, debug bool) *Client {
	if binPath == "" {
		binPath = defaultBinary
	}
	return &Client{
		binPath:     binPath,
		ffmpegDir:   ffmpegDir,
		rateLimiter: rate.NewLimiter(rate.Every(extractRateLimit), extractBurst),
		debug:       debug,
	}
}

// Available reports whether the yt-dlp binary can be found
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.binPath)
	return err == nil
}

// ExtractInfo enumerates the tracks referenced by a URL. Playlists are
// flattened without resolving each entry; single videos yield one track.
// Unavailable playlist entries are skipped rather than failing the call.
func (c *Client) ExtractInfo(ctx context.Context, url string) ([]shared.Track, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	args := []string{
		"--dump-single-json",
		"--flat-playlist",
		"--skip-download",
		"--ignore-errors",
		"--no-warnings",
		"--playlist-items", defaultPlaylistSpan,
		"--socket-timeout", "5",
		"--retries", "1",
		"--no-check-certificates",
		"--geo-bypass",
		url,
	}

	shared.DebugPrint(c.debug, "running %s %s", c.binPath, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, c.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// --ignore-errors still exits non-zero when some entries failed;
		// salvage whatever JSON was produced.
		if stdout.Len() == 0 {
			return nil, fmt.Errorf("yt-dlp failed for %s: %w (%s)", url, err, strings.TrimSpace(stderr.String()))
		}
	}

	tracks, err := parseDump(stdout.Bytes(), url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output for %s: %w", url, err)
	}
	return tracks, nil
}

// parseDump converts a --dump-single-json document into tracks. sourceURL is
// used as fallback when the dump has no usable per-entry URL.
func parseDump(data []byte, sourceURL string) ([]shared.Track, error) {
	var dump infoDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, err
	}

	if dump.Type == "playlist" || len(dump.Entries) > 0 {
		tracks := make([]shared.Track, 0, len(dump.Entries))
		for _, entry := range dump.Entries {
			if entry.ID == "" && entry.Title == "" {
				continue
			}
			url := entry.URL
			if url == "" {
				url = entry.WebpageURL
			}
			if url == "" && entry.ID != "" {
				url = "https://www.youtube.com/watch?v=" + entry.ID
			}
			title := entry.Title
			if title == "" {
				title = "Unknown"
			}
			tracks = append(tracks, shared.Track{
				ID:        entry.ID,
				Title:     title,
				URL:       url,
				Duration:  int(entry.Duration),
				Thumbnail: entry.Thumbnail,
			})
		}
		return tracks, nil
	}

	title := dump.Title
	if title == "" {
		title = "Unknown"
	}
	return []shared.Track{{
		ID:        dump.ID,
		Title:     title,
		URL:       sourceURL,
		Duration:  int(dump.Duration),
		Thumbnail: dump.Thumbnail,
	}}, nil
}

// FormatExtension returns the file extension produced for a download format
func FormatExtension(format string) (string, error) {
	switch format {
	case "mp3":
		return "mp3", nil
	case "m4a":
		return "m4a", nil
	case "flac":
		return "flac", nil
	case "mp4", "mp4_1080":
		return "mp4", nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatArgs maps an output format onto yt-dlp selection and post-processing
// arguments, matching the quality tiers of the original tool.
func formatArgs(format string) ([]string, error) {
	switch format {
	case "mp3":
		return []string{"-x", "--audio-format", "mp3", "--audio-quality", "192K"}, nil
	case "m4a":
		return []string{"-x", "--audio-format", "m4a", "--audio-quality", "256K"}, nil
	case "flac":
		return []string{"-x", "--audio-format", "flac"}, nil
	case "mp4":
		return []string{
			"-f", "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[height<=720][ext=mp4]/best",
			"--merge-output-format", "mp4",
		}, nil
	case "mp4_1080":
		return []string{
			"-f", "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4]/best",
			"--merge-output-format", "mp4",
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// downloadStrategies are tried in order; the android player client dodges
// most 403 responses, so it goes first.
var downloadStrategies = []struct {
	name string
	args []string
}{
	{"android client", []string{"--extractor-args", "youtube:player_client=android"}},
	{"web client", []string{"--extractor-args", "youtube:player_client=web"}},
	{"default", nil},
}

// Download fetches one track into outputDir in the requested format and
// returns the path of the resulting file.
func (c *Client) Download(ctx context.Context, track shared.Track, outputDir, format string) (string, error) {
	if track.URL == "" {
		return "", fmt.Errorf("track %q has no URL", track.Title)
	}

	fmtArgs, err := formatArgs(format)
	if err != nil {
		return "", err
	}
	ext, err := FormatExtension(format)
	if err != nil {
		return "", err
	}

	safeTitle := shared.SanitizeFileName(track.Title)
	if safeTitle == "unknown" && track.ID != "" {
		safeTitle = track.ID
	}
	outputTemplate := filepath.Join(outputDir, safeTitle+".%(ext)s")
	wantPath := filepath.Join(outputDir, safeTitle+"."+ext)

	baseArgs := append([]string{
		"--no-warnings",
		"--no-progress",
		"--concurrent-fragments", "8",
		"--retries", "1",
		"--fragment-retries", "1",
		"--socket-timeout", "8",
		"--no-check-certificates",
		"--geo-bypass",
		"-o", outputTemplate,
	}, fmtArgs...)
	if c.ffmpegDir != "" {
		baseArgs = append(baseArgs, "--ffmpeg-location", c.ffmpegDir)
	}

	var lastErr error
	for _, strategy := range downloadStrategies {
		args := append(append([]string{}, baseArgs...), strategy.args...)
		args = append(args, track.URL)

		shared.DebugPrint(c.debug, "downloading %q via %s", track.Title, strategy.name)

		cmd := exec.CommandContext(ctx, c.binPath, args...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		runErr := cmd.Run()
		if runErr == nil {
			if shared.FileExists(wantPath) {
				return wantPath, nil
			}
			// Post-processing can land on another container
			if found := findDownloaded(outputDir, safeTitle); found != "" {
				return found, nil
			}
			runErr = fmt.Errorf("download reported success but no output file found")
		}

		lastErr = fmt.Errorf("%s failed: %w (%s)", strategy.name, runErr, strings.TrimSpace(stderr.String()))

		// Only a 403 justifies switching player clients
		if !strings.Contains(stderr.String(), "403") {
			break
		}
	}

	return "", fmt.Errorf("all download strategies failed for %q: %w", track.Title, lastErr)
}

// findDownloaded locates the produced media file when the final extension
// differs from the requested one.
func findDownloaded(outputDir, safeTitle string) string {
	for _, ext := range []string{".mp3", ".m4a", ".flac", ".mp4", ".webm", ".opus"} {
		candidate := filepath.Join(outputDir, safeTitle+ext)
		if shared.FileExists(candidate) {
			return candidate
		}
	}
	return ""
}
