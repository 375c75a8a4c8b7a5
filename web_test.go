package main

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"tube-downloader/internal/config"
)

func TestDownloadZipHandlerServesLastBatch(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "song.mp3"), []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}

	server := &webServer{cfg: config.DefaultConfig(), lastDownloadDir: dir}
	rec := httptest.NewRecorder()
	server.downloadZipHandler(rec, httptest.NewRequest(http.MethodGet, "/api/download-zip", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a directory with media files, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/zip" {
		t.Errorf("unexpected content type %q", got)
	}

	reader, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("response is not a readable zip: %v", err)
	}
	if len(reader.File) != 1 || reader.File[0].Name != "song.mp3" {
		t.Errorf("unexpected archive contents: %v", reader.File)
	}
}

func TestDownloadZipHandlerEmptyDirectory(t *testing.T) {
	server := &webServer{cfg: config.DefaultConfig(), lastDownloadDir: t.TempDir()}
	rec := httptest.NewRecorder()
	server.downloadZipHandler(rec, httptest.NewRequest(http.MethodGet, "/api/download-zip", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a directory without media files, got %d", rec.Code)
	}
}

func TestDownloadZipHandlerMissingDirectory(t *testing.T) {
	server := &webServer{
		cfg:             config.DefaultConfig(),
		lastDownloadDir: filepath.Join(t.TempDir(), "never-created"),
	}
	rec := httptest.NewRecorder()
	server.downloadZipHandler(rec, httptest.NewRequest(http.MethodGet, "/api/download-zip", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 when no batch has been downloaded, got %d", rec.Code)
	}
}
