package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/semaphore"

	"tube-downloader/internal/api/ytdlp"
	"tube-downloader/internal/config"
	"tube-downloader/internal/shared"
)

// Downloader runs batches of track downloads with bounded parallelism
type Downloader struct {
	YtDlp  *ytdlp.Client
	Config *config.Config
	Debug  bool
}

func New(client *ytdlp.Client, cfg *config.Config, debug bool) *Downloader {
	return &Downloader{YtDlp: client, Config: cfg, Debug: debug}
}

// DownloadBatch fetches all tracks into outputDir and returns one result per
// track, in input order. Individual failures do not abort the batch.
func (d *Downloader) DownloadBatch(ctx context.Context, tracks []shared.Track, outputDir, format string) []shared.DownloadResult {
	results := make([]shared.DownloadResult, len(tracks))

	if err := shared.CreateDirIfNotExists(outputDir); err != nil {
		for i, track := range tracks {
			results[i] = shared.DownloadResult{Title: track.Title, Error: err.Error()}
		}
		return results
	}

	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(d.Config.Parallelism))

	var pool *pb.Pool
	if shared.IsTTY() {
		var err error
		pool, err = pb.StartPool()
		if err != nil {
			shared.ColorError.Printf("❌ Failed to start progress bar pool: %v\n", err)
			pool = nil
		}
	}

	bars := make([]*pb.ProgressBar, len(tracks))
	if pool != nil {
		for i, track := range tracks {
			bar := pb.New(1)
			bar.SetTemplateString(`{{ string . "prefix" }} {{ bar . }}`)
			bar.Set("prefix", fmt.Sprintf("%-44s", shared.TruncateString(track.Title, 44)))
			bars[i] = bar
			pool.Add(bar)
		}
	}

	for idx, track := range tracks {
		wg.Add(1)
		if err := sem.Acquire(ctx, 1); err != nil {
			results[idx] = shared.DownloadResult{Title: track.Title, Error: err.Error()}
			wg.Done()
			continue
		}

		go func(idx int, track shared.Track) {
			defer wg.Done()
			defer sem.Release(1)

			results[idx] = d.downloadOne(ctx, track, outputDir, format)
			if bars[idx] != nil {
				bars[idx].SetCurrent(1)
				bars[idx].Finish()
			}
		}(idx, track)
	}

	wg.Wait()
	if pool != nil {
		pool.Stop()
	}

	return results
}

// downloadOne downloads and tags a single track, retrying transient failures
func (d *Downloader) downloadOne(ctx context.Context, track shared.Track, outputDir, format string) shared.DownloadResult {
	result := shared.DownloadResult{Title: track.Title}

	maxRetries := shared.DefaultMaxRetries
	if d.Config.MaxRetryAttempts > 0 {
		maxRetries = d.Config.MaxRetryAttempts
	}

	var path string
	err := shared.RetryWithBackoff(maxRetries, 2, func() error {
		var downloadErr error
		path, downloadErr = d.YtDlp.Download(ctx, track, outputDir, format)
		return downloadErr
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	// Tagging failures are not fatal, the media file is already on disk
	if err := TagFile(path, track, d.fetchCover(track.Thumbnail)); err != nil {
		shared.DebugPrint(d.Debug, "tagging %s failed: %v", path, err)
	}

	result.Success = true
	result.Filename = filepath.Base(path)
	return result
}

// fetchCover pulls the thumbnail for embedding; a miss just means no artwork
func (d *Downloader) fetchCover(url string) []byte {
	if url == "" {
		return nil
	}

	var data []byte
	err := shared.RetryWithBackoffForHTTP(2, 500*time.Millisecond, 5*time.Second, func() error {
		req, err := http.NewRequest("GET", url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", shared.UserAgent)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &shared.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Message: "cover download failed"}
		}
		data, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		shared.DebugPrint(d.Debug, "cover download failed: %v", err)
		return nil
	}
	return data
}

// Stats summarizes a batch of results
func Stats(results []shared.DownloadResult) shared.DownloadStats {
	var stats shared.DownloadStats
	for _, result := range results {
		if result.Success {
			stats.SuccessCount++
		} else {
			stats.FailedCount++
			stats.FailedItems = append(stats.FailedItems, fmt.Sprintf("%s: %s", result.Title, result.Error))
		}
	}
	return stats
}
