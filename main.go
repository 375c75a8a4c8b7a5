package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	spotifyapi "tube-downloader/internal/api/spotify"
	"tube-downloader/internal/api/ytdlp"
	"tube-downloader/internal/config"
	"tube-downloader/internal/core/downloader"
	"tube-downloader/internal/core/ffmpeg"
	"tube-downloader/internal/core/updater"
	"tube-downloader/internal/dedupe"
	"tube-downloader/internal/shared"
)

const toolVersion = "1.0.0"

var (
	configPath       string
	downloadLocation string
	outputFormat     string
	parallelism      int
	threshold        int
	basicDedupe      bool
	noConfirm        bool
	debug            bool
)

var rootCmd = &cobra.Command{
	Use:     "tube-downloader",
	Version: toolVersion,
	Short:   "A bulk media downloader with duplicate detection.",
	Long: fmt.Sprintf(`Tube Downloader (v%s)

Downloads audio and video from media URLs and playlists via yt-dlp, with a
similarity-based duplicate detector that flags the same song uploaded under
different titles. Spotify playlist/album/track links are resolved into
YouTube searches.`, toolVersion),
}

var infoCmd = &cobra.Command{
	Use:   "info [url...]",
	Short: "List the tracks behind one or more URLs without downloading.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initConfig()
		tracks, errs := collectTracks(context.Background(), cfg, args)
		for _, err := range errs {
			shared.ColorWarning.Printf("⚠️ %v\n", err)
		}
		if len(tracks) == 0 {
			shared.ColorError.Println("❌ No tracks found.")
			return
		}
		printTracks(tracks)
	},
}

var dupesCmd = &cobra.Command{
	Use:   "dupes [url...]",
	Short: "Show which tracks across the given URLs look like duplicates.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initConfig()
		tracks, errs := collectTracks(context.Background(), cfg, args)
		for _, err := range errs {
			shared.ColorWarning.Printf("⚠️ %v\n", err)
		}
		if len(tracks) == 0 {
			shared.ColorError.Println("❌ No tracks found.")
			return
		}

		groups, flagged := findDuplicates(shared.Titles(tracks), cfg)
		if len(groups) == 0 {
			shared.ColorSuccess.Println("✅ No duplicates detected.")
			return
		}
		shared.ColorWarning.Printf("Found %d duplicate group(s), %d track(s) flagged:\n", len(groups), len(flagged))
		for i, group := range groups {
			shared.ColorInfo.Printf("Group %d:\n", i+1)
			for _, idx := range group {
				fmt.Printf("  [%d] %s\n", idx+1, tracks[idx].Title)
			}
		}
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [url...]",
	Short: "Download the tracks behind one or more URLs.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initConfig()
		updater.CheckForUpdates(cfg, toolVersion)

		ctx := context.Background()
		tracks, errs := collectTracks(ctx, cfg, args)
		for _, err := range errs {
			shared.ColorWarning.Printf("⚠️ %v\n", err)
		}
		if len(tracks) == 0 {
			shared.ColorError.Println("❌ No tracks found.")
			return
		}
		printTracks(tracks)

		tracks = dropDuplicates(tracks, cfg)
		tracks, err := selectTracks(tracks)
		if err != nil {
			shared.ColorError.Printf("❌ %v\n", err)
			return
		}

		ffmpegDir, err := ensureFFmpeg(cfg)
		if err != nil {
			shared.ColorError.Printf("❌ FFmpeg setup failed: %v\n", err)
			return
		}

		client := ytdlp.NewClient(cfg.YtDlpPath, ffmpegDir, cfg.Debug)
		if !client.Available() {
			shared.ColorError.Println("❌ yt-dlp not found. Install it and make sure it is on PATH.")
			return
		}

		dl := downloader.New(client, cfg, cfg.Debug)
		results := dl.DownloadBatch(ctx, tracks, cfg.DownloadLocation, cfg.Format)
		stats := downloader.Stats(results)

		shared.ColorSuccess.Printf("✅ Downloaded %d/%d track(s) to %s\n", stats.SuccessCount, len(tracks), cfg.DownloadLocation)
		for _, item := range stats.FailedItems {
			shared.ColorError.Printf("❌ %s\n", item)
		}
	},
}

// initConfig loads config.json (prompting for initial values on first run)
// and applies command-line overrides.
func initConfig() *config.Config {
	cfg := config.DefaultConfig()

	if !shared.FileExists(configPath) {
		shared.ColorInfo.Println("✨ Welcome to tube-downloader! Let's set up your configuration.")

		cfg.DownloadLocation = shared.GetUserInput(
			fmt.Sprintf("Enter download location (e.g., %s)", cfg.DownloadLocation), cfg.DownloadLocation)

		parallelismStr := shared.GetUserInput(
			fmt.Sprintf("Enter number of parallel downloads (default: %d)", cfg.Parallelism),
			strconv.Itoa(cfg.Parallelism))
		if p, err := strconv.Atoi(parallelismStr); err == nil && p > 0 {
			cfg.Parallelism = p
		} else {
			shared.ColorWarning.Printf("⚠️ Invalid parallelism value %q, using default %d.\n", parallelismStr, cfg.Parallelism)
		}

		if err := config.SaveConfig(configPath, cfg); err != nil {
			shared.ColorError.Printf("❌ Failed to save initial config: %v\n", err)
		} else {
			shared.ColorSuccess.Println("✅ Configuration saved to", configPath)
		}
	} else if err := config.LoadConfig(configPath, cfg); err != nil {
		shared.ColorError.Printf("❌ Failed to load config from %s: %v\n", configPath, err)
	}

	// Command-line flags override config file
	if downloadLocation != "" {
		cfg.DownloadLocation = downloadLocation
	}
	if outputFormat != "" {
		cfg.Format = outputFormat
	}
	if parallelism > 0 {
		cfg.Parallelism = parallelism
	}
	if threshold > 0 {
		cfg.DuplicateThreshold = threshold
	}
	if basicDedupe {
		cfg.SmartDedupe = false
	}
	cfg.Debug = debug

	if err := cfg.Validate(); err != nil {
		shared.ColorError.Printf("❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// collectTracks resolves every URL into tracks, routing Spotify links through
// the Spotify resolver and everything else through yt-dlp. Per-URL failures
// are returned alongside the tracks that did resolve.
func collectTracks(ctx context.Context, cfg *config.Config, urls []string) ([]shared.Track, []error) {
	var tracks []shared.Track
	var errs []error

	var spotifyClient *spotifyapi.Client
	ytdlpClient := ytdlp.NewClient(cfg.YtDlpPath, cfg.FFmpegDir, cfg.Debug)

	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}

		if spotifyapi.IsSpotifyURL(url) {
			if spotifyClient == nil {
				spotifyClient = spotifyapi.NewClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
				if err := spotifyClient.Authenticate(ctx); err != nil {
					errs = append(errs, fmt.Errorf("spotify: %w", err))
					spotifyClient = nil
					continue
				}
			}
			resolved, name, err := spotifyClient.ResolveURL(ctx, url)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if name != "" {
				shared.ColorInfo.Printf("🎵 Resolved %q (%d tracks)\n", name, len(resolved))
			}
			tracks = append(tracks, resolved...)
			continue
		}

		resolved, err := ytdlpClient.ExtractInfo(ctx, url)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(resolved) == 0 {
			errs = append(errs, fmt.Errorf("no tracks found at %s", url))
			continue
		}
		tracks = append(tracks, resolved...)
	}

	if cfg.PlaylistLimit > 0 && len(tracks) > cfg.PlaylistLimit {
		shared.ColorWarning.Printf("⚠️ Limiting to the first %d tracks.\n", cfg.PlaylistLimit)
		tracks = tracks[:cfg.PlaylistLimit]
	}

	for i := range tracks {
		tracks[i].DurationFormatted = shared.FormatDuration(tracks[i].Duration)
	}
	return tracks, errs
}

// findDuplicates clusters titles using the configured mode and threshold. A
// threshold of 0 lets the mode pick its own default, so an explicit value
// (flag or config) is always honored as-is.
func findDuplicates(titles []string, cfg *config.Config) ([][]int, []int) {
	mode := dedupe.Basic
	if cfg.SmartDedupe {
		mode = dedupe.Smart
	}
	return dedupe.Cluster(titles, cfg.DuplicateThreshold, mode)
}

// dropDuplicates offers to keep only the first track of each duplicate group
func dropDuplicates(tracks []shared.Track, cfg *config.Config) []shared.Track {
	groups, flagged := findDuplicates(shared.Titles(tracks), cfg)
	if len(groups) == 0 {
		return tracks
	}

	shared.ColorWarning.Printf("⚠️ %d track(s) look like duplicates:\n", len(flagged))
	for i, group := range groups {
		shared.ColorInfo.Printf("Group %d:\n", i+1)
		for _, idx := range group {
			fmt.Printf("  [%d] %s\n", idx+1, tracks[idx].Title)
		}
	}

	if !noConfirm {
		if !shared.IsTTY() {
			return tracks
		}
		if !shared.GetYesNoInput("Keep only the first track of each group?", "y") {
			return tracks
		}
	}

	drop := make(map[int]bool)
	for _, group := range groups {
		for _, idx := range group[1:] {
			drop[idx] = true
		}
	}
	kept := make([]shared.Track, 0, len(tracks)-len(drop))
	for i, track := range tracks {
		if !drop[i] {
			kept = append(kept, track)
		}
	}
	shared.ColorInfo.Printf("Keeping %d of %d track(s).\n", len(kept), len(tracks))
	return kept
}

// selectTracks asks which tracks to download, defaulting to all of them
func selectTracks(tracks []shared.Track) ([]shared.Track, error) {
	if noConfirm || !shared.IsTTY() {
		return tracks, nil
	}

	input := shared.GetUserInput(
		fmt.Sprintf("Select tracks to download (e.g. 1,3,5-7; 1-%d available)", len(tracks)), "all")
	if strings.EqualFold(input, "all") {
		return tracks, nil
	}

	indices, err := shared.ParseSelectionInput(input, len(tracks))
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, shared.ErrNoItemsSelected
	}

	selected := make([]shared.Track, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, tracks[idx-1])
	}
	return selected, nil
}

// ensureFFmpeg prefers an explicitly configured directory and otherwise
// installs a managed build next to the downloads.
func ensureFFmpeg(cfg *config.Config) (string, error) {
	if cfg.FFmpegDir != "" {
		return cfg.FFmpegDir, nil
	}
	dir, err := ffmpeg.Ensure(managedFFmpegDir(cfg), cfg.Debug)
	if err != nil {
		return "", err
	}
	return dir, nil
}

func managedFFmpegDir(cfg *config.Config) string {
	return filepath.Join(cfg.DownloadLocation, ".ffmpeg")
}

func printTracks(tracks []shared.Track) {
	shared.ColorInfo.Printf("Found %d track(s):\n", len(tracks))
	for i, track := range tracks {
		fmt.Printf("  [%d] %-60s %s\n", i+1, shared.TruncateString(track.Title, 60), track.DurationFormatted)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&downloadLocation, "download-location", "", "Directory to save downloads")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	downloadCmd.Flags().StringVar(&outputFormat, "format", "", "Output format (mp3, m4a, flac, mp4, mp4_1080)")
	downloadCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Number of parallel downloads")
	downloadCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Skip confirmation prompts")

	for _, cmd := range []*cobra.Command{dupesCmd, downloadCmd} {
		cmd.Flags().IntVar(&threshold, "threshold", 0, "Similarity score cutoff for duplicates (1-100)")
		cmd.Flags().BoolVar(&basicDedupe, "basic", false, "Compare raw titles instead of extracted song names")
	}

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(dupesCmd)
	rootCmd.AddCommand(downloadCmd)
}

func main() {
	shared.InitializeColors()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
