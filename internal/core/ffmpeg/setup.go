package ffmpeg

import (
	"archive/tar"
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/ulikunitz/xz"

	"tube-downloader/internal/shared"
)

// Static build sources per platform. The BtbN builds track ffmpeg master and
// are the same ones the upstream project points users at.
const (
	windowsBuildURL = "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-win64-gpl.zip"
	linuxBuildURL   = "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-linux64-gpl.tar.xz"
	darwinBuildURL  = "https://evermeet.cx/ffmpeg/getrelease/zip"
)

// Path returns the managed ffmpeg binary path under dir, or "" when it has
// not been installed yet.
func Path(dir string) string {
	binary := filepath.Join(dir, "bin", binaryName())
	if shared.FileExists(binary) {
		return binary
	}
	return ""
}

// Ensure makes an ffmpeg binary available and returns the directory to pass
// to yt-dlp's --ffmpeg-location. An empty return with nil error means ffmpeg
// is already on PATH and no location override is needed.
func Ensure(dir string, debug bool) (string, error) {
	if _, err := exec.LookPath("ffmpeg"); err == nil {
		shared.DebugPrint(debug, "ffmpeg found on PATH")
		return "", nil
	}

	binDir := filepath.Join(dir, "bin")
	if Path(dir) != "" {
		shared.DebugPrint(debug, "using managed ffmpeg in %s", binDir)
		return binDir, nil
	}

	shared.ColorInfo.Println("⬇️ FFmpeg not found, downloading a static build...")
	if err := install(dir, debug); err != nil {
		return "", err
	}
	if Path(dir) == "" {
		return "", fmt.Errorf("ffmpeg installation completed but binary not found in %s", binDir)
	}
	shared.ColorSuccess.Println("✅ FFmpeg installed successfully")
	return binDir, nil
}

func install(dir string, debug bool) error {
	url, err := buildURL()
	if err != nil {
		return err
	}

	if err := shared.CreateDirIfNotExists(filepath.Join(dir, "bin")); err != nil {
		return fmt.Errorf("failed to create ffmpeg directory: %w", err)
	}

	archivePath := filepath.Join(dir, "ffmpeg-download"+archiveExt(url))
	if err := downloadFile(url, archivePath, debug); err != nil {
		return err
	}
	defer os.Remove(archivePath)

	shared.ColorInfo.Println("📦 Extracting FFmpeg...")
	if strings.HasSuffix(archivePath, ".tar.xz") {
		return extractTarXz(archivePath, filepath.Join(dir, "bin"))
	}
	return extractZip(archivePath, filepath.Join(dir, "bin"))
}

func buildURL() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return windowsBuildURL, nil
	case "linux":
		return linuxBuildURL, nil
	case "darwin":
		return darwinBuildURL, nil
	default:
		return "", fmt.Errorf("no static ffmpeg build available for %s, please install ffmpeg manually", runtime.GOOS)
	}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func archiveExt(url string) string {
	if strings.HasSuffix(url, ".tar.xz") {
		return ".tar.xz"
	}
	return ".zip"
}

// downloadFile fetches url into dest with a progress bar
func downloadFile(url, dest string, debug bool) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", shared.UserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download ffmpeg: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ffmpeg download failed: status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	var body io.Reader = resp.Body
	if shared.IsTTY() && resp.ContentLength > 0 {
		bar := pb.Full.Start64(resp.ContentLength)
		bar.Set(pb.Bytes, true)
		defer bar.Finish()
		body = bar.NewProxyReader(resp.Body)
	}

	if _, err := io.Copy(out, body); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to write ffmpeg archive: %w", err)
	}
	shared.DebugPrint(debug, "downloaded %s to %s", url, dest)
	return nil
}

// extractTarXz pulls the ffmpeg and ffprobe binaries out of a .tar.xz static
// build, flattening whatever directory layout the archive uses.
func extractTarXz(archivePath, binDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	xzReader, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to open xz stream: %w", err)
	}

	tarReader := tar.NewReader(xzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !wantedBinary(header.Name) {
			continue
		}
		if err := writeBinary(filepath.Join(binDir, filepath.Base(header.Name)), tarReader); err != nil {
			return err
		}
	}
	return nil
}

// extractZip handles the Windows and macOS builds
func extractZip(archivePath, binDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open zip archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !wantedBinary(file.Name) {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("failed to read %s from archive: %w", file.Name, err)
		}
		err = writeBinary(filepath.Join(binDir, filepath.Base(file.Name)), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// wantedBinary matches the executables worth keeping from a build archive
func wantedBinary(name string) bool {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, ".exe")
	return base == "ffmpeg" || base == "ffprobe"
}

func writeBinary(dest string, src io.Reader) error {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to extract %s: %w", dest, err)
	}
	return nil
}
