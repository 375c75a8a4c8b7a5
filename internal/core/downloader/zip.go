package downloader

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// mediaExtensions are the file types included when zipping a download folder
var mediaExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".mp4":  true,
	".webm": true,
	".opus": true,
}

// MediaFiles lists the media file names directly inside dir
func MediaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read download directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !mediaExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// WriteZip streams every media file in dir into w as a flat zip archive. It
// returns the number of files written.
func WriteZip(dir string, w io.Writer) (int, error) {
	names, err := MediaFiles(dir)
	if err != nil {
		return 0, err
	}

	zipWriter := zip.NewWriter(w)
	count := 0
	for _, name := range names {
		if err := addZipEntry(zipWriter, filepath.Join(dir, name), name); err != nil {
			zipWriter.Close()
			return count, err
		}
		count++
	}

	if err := zipWriter.Close(); err != nil {
		return count, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return count, nil
}

func addZipEntry(zipWriter *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	entry, err := zipWriter.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s to zip: %w", name, err)
	}
	if _, err := io.Copy(entry, f); err != nil {
		return fmt.Errorf("failed to write %s to zip: %w", name, err)
	}
	return nil
}
