package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tube-downloader/internal/api/navidrome"
	"tube-downloader/internal/api/ytdlp"
	"tube-downloader/internal/config"
	"tube-downloader/internal/core/downloader"
	"tube-downloader/internal/core/updater"
	"tube-downloader/internal/dedupe"
	"tube-downloader/internal/shared"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the web UI for tube-downloader",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := initConfig()
		updater.CheckForUpdates(cfg, toolVersion)
		startWebServer(cfg)
	},
}

func init() {
	rootCmd.AddCommand(webCmd)
}

// webServer carries per-server state for the HTTP handlers
type webServer struct {
	cfg *config.Config

	mu              sync.Mutex
	lastDownloadDir string
}

type fetchInfoRequest struct {
	URLs  []string `json:"urls"`
	Limit int      `json:"limit,omitempty"`
}

type fetchInfoResponse struct {
	Videos []shared.Track `json:"videos"`
	Count  int            `json:"count"`
	Errors []string       `json:"errors,omitempty"`
}

type checkDuplicatesRequest struct {
	Videos    []shared.Track `json:"videos"`
	Threshold int            `json:"threshold,omitempty"`
	Smart     *bool          `json:"smart,omitempty"`
}

type checkDuplicatesResponse struct {
	DuplicateGroups  [][]int `json:"duplicate_groups"`
	DuplicateIndices []int   `json:"duplicate_indices"`
}

type downloadRequest struct {
	Videos       []shared.Track `json:"videos"`
	DownloadPath string         `json:"download_path,omitempty"`
	Format       string         `json:"format,omitempty"`
}

type downloadResponse struct {
	Results         []shared.DownloadResult `json:"results"`
	SuccessfulCount int                     `json:"successful_count"`
	TotalCount      int                     `json:"total_count"`
	DownloadPath    string                  `json:"download_path"`
	Format          string                  `json:"format"`
}

type navidromeExportRequest struct {
	Playlist string   `json:"playlist"`
	Titles   []string `json:"titles"`
}

func startWebServer(cfg *config.Config) {
	server := &webServer{cfg: cfg}
	mux := http.NewServeMux()

	fs := http.FileServer(http.Dir("./web"))
	mux.Handle("/", fs)

	mux.HandleFunc("/api/fetch-info", server.fetchInfoHandler)
	mux.HandleFunc("/api/check-duplicates", server.checkDuplicatesHandler)
	mux.HandleFunc("/api/download", server.downloadHandler)
	mux.HandleFunc("/api/download-zip", server.downloadZipHandler)
	mux.HandleFunc("/downloads/", server.serveDownloadHandler)
	mux.HandleFunc("/api/export-navidrome", server.navidromeExportHandler)
	mux.HandleFunc("/api/settings", server.settingsHandler)

	shared.ColorInfo.Printf("🚀 Starting web server on http://localhost%s\n", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		shared.ColorError.Printf("❌ Failed to start web server: %v\n", err)
	}
}

func (s *webServer) fetchInfoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req fetchInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.URLs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "No URLs provided")
		return
	}

	cfg := *s.cfg
	if req.Limit > 0 {
		cfg.PlaylistLimit = req.Limit
	}

	tracks, errs := collectTracks(r.Context(), &cfg, req.URLs)
	if len(tracks) == 0 {
		writeJSONError(w, http.StatusBadRequest, "No videos found")
		return
	}

	resp := fetchInfoResponse{Videos: tracks, Count: len(tracks)}
	for _, err := range errs {
		resp.Errors = append(resp.Errors, err.Error())
	}
	writeJSON(w, resp)
}

func (s *webServer) checkDuplicatesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req checkDuplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Videos) == 0 {
		writeJSONError(w, http.StatusBadRequest, "No videos provided")
		return
	}

	mode := dedupe.Basic
	smart := s.cfg.SmartDedupe
	if req.Smart != nil {
		smart = *req.Smart
	}
	if smart {
		mode = dedupe.Smart
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = mode.DefaultThreshold()
	}

	groups, flagged := dedupe.Cluster(shared.Titles(req.Videos), threshold, mode)
	if groups == nil {
		groups = [][]int{}
	}
	if flagged == nil {
		flagged = []int{}
	}
	writeJSON(w, checkDuplicatesResponse{DuplicateGroups: groups, DuplicateIndices: flagged})
}

func (s *webServer) downloadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Videos) == 0 {
		writeJSONError(w, http.StatusBadRequest, "No videos selected")
		return
	}

	format := req.Format
	if format == "" {
		format = s.cfg.Format
	}
	if _, err := ytdlp.FormatExtension(format); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ffmpegDir, err := ensureFFmpeg(s.cfg)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("FFmpeg setup failed: %v", err))
		return
	}

	downloadDir := strings.TrimSpace(req.DownloadPath)
	if downloadDir == "" {
		// Fresh default directory per batch, matching the ZIP endpoint's
		// expectation of containing only the latest run.
		downloadDir = filepath.Join(s.cfg.DownloadLocation, "web-downloads")
		os.RemoveAll(downloadDir)
	}
	if err := shared.CreateDirIfNotExists(downloadDir); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Failed to create folder: %v", err))
		return
	}

	s.mu.Lock()
	s.lastDownloadDir = downloadDir
	s.mu.Unlock()

	client := ytdlp.NewClient(s.cfg.YtDlpPath, ffmpegDir, s.cfg.Debug)
	dl := downloader.New(client, s.cfg, s.cfg.Debug)
	results := dl.DownloadBatch(context.Background(), req.Videos, downloadDir, format)
	stats := downloader.Stats(results)

	writeJSON(w, downloadResponse{
		Results:         results,
		SuccessfulCount: stats.SuccessCount,
		TotalCount:      len(req.Videos),
		DownloadPath:    downloadDir,
		Format:          format,
	})
}

func (s *webServer) downloadZipHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	dir := s.downloadDir()
	if !shared.DirExists(dir) {
		writeJSONError(w, http.StatusNotFound, "No downloads available")
		return
	}

	files, err := downloader.MediaFiles(dir)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(files) == 0 {
		writeJSONError(w, http.StatusNotFound, "No media files found")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="songs.zip"`)
	if _, err := downloader.WriteZip(dir, w); err != nil {
		shared.ColorError.Printf("❌ Failed to write zip: %v\n", err)
	}
}

func (s *webServer) serveDownloadHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/downloads/")
	if name == "" || name != filepath.Base(name) {
		http.Error(w, "Invalid file name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.downloadDir(), name)
	if !shared.FileExists(path) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func (s *webServer) navidromeExportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req navidromeExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Playlist == "" || len(req.Titles) == 0 {
		writeJSONError(w, http.StatusBadRequest, "Playlist name and titles are required")
		return
	}
	if s.cfg.NavidromeURL == "" {
		writeJSONError(w, http.StatusBadRequest, "Navidrome is not configured")
		return
	}

	client := navidrome.NewClient(s.cfg.NavidromeURL, s.cfg.NavidromeUsername, s.cfg.NavidromePassword)
	if err := client.Authenticate(); err != nil {
		writeJSONError(w, http.StatusBadGateway, fmt.Sprintf("Navidrome authentication failed: %v", err))
		return
	}

	added, err := client.ExportTracks(req.Playlist, req.Titles, s.cfg.Debug)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, map[string]interface{}{"success": true, "added": added})
}

func (s *webServer) settingsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.cfg)
	case http.MethodPost:
		var cfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := config.SaveConfig(configPath, &cfg); err != nil {
			writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save config: %v", err))
			return
		}
		cfg.Debug = s.cfg.Debug
		*s.cfg = cfg
		writeJSON(w, map[string]interface{}{"success": true})
	default:
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
	}
}

func (s *webServer) downloadDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastDownloadDir != "" {
		return s.lastDownloadDir
	}
	return filepath.Join(s.cfg.DownloadLocation, "web-downloads")
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
