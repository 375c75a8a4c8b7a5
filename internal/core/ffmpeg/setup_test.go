package ffmpeg

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func TestWantedBinary(t *testing.T) {
	for _, name := range []string{
		"ffmpeg-master-latest-win64-gpl/bin/ffmpeg.exe",
		"ffmpeg-master-latest-linux64-gpl/bin/ffprobe",
		"ffmpeg",
	} {
		if !wantedBinary(name) {
			t.Errorf("wantedBinary(%q) = false", name)
		}
	}
	for _, name := range []string{
		"ffmpeg-master-latest-win64-gpl/LICENSE.txt",
		"bin/ffplay.exe",
		"doc/ffmpeg.html",
	} {
		if wantedBinary(name) {
			t.Errorf("wantedBinary(%q) = true", name)
		}
	}
}

func TestExtractZipFlattensLayout(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "ffmpeg.zip")

	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	for name, content := range map[string]string{
		"ffmpeg-build/bin/ffmpeg":  "binary",
		"ffmpeg-build/bin/ffplay":  "skipped",
		"ffmpeg-build/LICENSE.txt": "skipped",
	} {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := extractZip(archivePath, binDir); err != nil {
		t.Fatalf("extractZip failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(binDir, "ffmpeg")); err != nil {
		t.Errorf("ffmpeg binary not extracted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(binDir, "ffplay")); err == nil {
		t.Error("unwanted binary was extracted")
	}
	if _, err := os.Stat(filepath.Join(binDir, "LICENSE.txt")); err == nil {
		t.Error("non-binary file was extracted")
	}
}

func TestArchiveExt(t *testing.T) {
	if got := archiveExt(linuxBuildURL); got != ".tar.xz" {
		t.Errorf("archiveExt(linux) = %q", got)
	}
	if got := archiveExt(windowsBuildURL); got != ".zip" {
		t.Errorf("archiveExt(windows) = %q", got)
	}
}
