package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// GitHub release endpoint for yt-dlp
const (
	DefaultAPIURL = "https://api.github.com/repos/yt-dlp/yt-dlp/releases/latest"
	userAgent     = "YouVid-Downloader/1.0"
)

// Release asset names published per platform
const (
	AssetWindows = "yt-dlp.exe"
	AssetMacOS   = "yt-dlp_macos"
	AssetLinux   = "yt-dlp"
)

// BackupSuffix is appended to the previous binary before the swap
const BackupSuffix = ".bak"

// Release is the subset of the GitHub release payload the updater reads
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable file attached to a release
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

// ProgressFunc receives the download fraction in [0, 1], or -1 when the
// server does not report a content length.
type ProgressFunc func(fraction float64)

// Updater checks for and applies yt-dlp releases. The zero value is not
// usable; construct it with NewUpdater.
type Updater struct {
	client     *http.Client
	apiURL     string
	onProgress ProgressFunc
}

// NewUpdater creates an updater against the public GitHub API
func NewUpdater() *Updater {
	return &Updater{
		client: &http.Client{Timeout: 10 * time.Minute},
		apiURL: DefaultAPIURL,
	}
}

// SetAPIURL overrides the release endpoint
func (u *Updater) SetAPIURL(url string) {
	u.apiURL = url
}

// SetProgressCallback registers the receiver for download progress
func (u *Updater) SetProgressCallback(fn ProgressFunc) {
	u.onProgress = fn
}

// AssetName returns the release asset published for a GOOS value
func AssetName(goos string) string {
	switch goos {
	case "windows":
		return AssetWindows
	case "darwin":
		return AssetMacOS
	default:
		return AssetLinux
	}
}

// LatestRelease fetches and parses the latest release metadata
func (u *Updater) LatestRelease(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("update: build release request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update: query releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("update: release query returned HTTP %d", resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("update: decode release payload: %w", err)
	}
	if rel.TagName == "" {
		return nil, fmt.Errorf("update: release payload has no tag")
	}
	return &rel, nil
}

// AssetURL returns the download URL of the platform asset in a release
func (r *Release) AssetURL(goos string) (string, bool) {
	want := AssetName(goos)
	for _, a := range r.Assets {
		if a.Name == want {
			return a.DownloadURL, true
		}
	}
	return "", false
}

// Check applies the latest release to the binary at destPath unless its tag
// matches lastChecked. It returns the latest tag and whether the binary was
// replaced. The tag is returned even on the skip path so callers can persist
// it.
func (u *Updater) Check(ctx context.Context, destPath, lastChecked string) (string, bool, error) {
	rel, err := u.LatestRelease(ctx)
	if err != nil {
		return "", false, err
	}
	if rel.TagName == lastChecked {
		slog.Debug("yt-dlp already current", "tag", rel.TagName)
		return rel.TagName, false, nil
	}

	url, ok := rel.AssetURL(runtime.GOOS)
	if !ok {
		return rel.TagName, false, fmt.Errorf("update: release %s has no asset for %s", rel.TagName, runtime.GOOS)
	}

	if err := u.Apply(ctx, url, destPath); err != nil {
		return rel.TagName, false, err
	}
	slog.Info("yt-dlp updated", "tag", rel.TagName, "path", destPath)
	return rel.TagName, true, nil
}

// Apply downloads an asset to a temporary file beside destPath, moves the
// previous binary to a .bak companion and swaps the new one in. The previous
// binary is restored if the swap fails.
func (u *Updater) Apply(ctx context.Context, assetURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return fmt.Errorf("update: build download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("update: download asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("update: asset download returned HTTP %d", resp.StatusCode)
	}

	tmpPath := destPath + ".download"
	os.Remove(tmpPath)

	if err := u.writeAsset(tmpPath, resp.Body, resp.ContentLength); err != nil {
		os.Remove(tmpPath)
		return err
	}

	backupPath := destPath + BackupSuffix
	hadPrevious := false
	if _, err := os.Stat(destPath); err == nil {
		hadPrevious = true
		os.Remove(backupPath)
		if err := os.Rename(destPath, backupPath); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("update: back up previous binary: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		if hadPrevious {
			_ = os.Rename(backupPath, destPath)
		}
		os.Remove(tmpPath)
		return fmt.Errorf("update: install new binary: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(destPath, 0o755); err != nil {
			return fmt.Errorf("update: mark binary executable: %w", err)
		}
	}
	return nil
}

func (u *Updater) writeAsset(path string, body io.Reader, total int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("update: ensure target dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("update: create temp file: %w", err)
	}

	src := body
	if u.onProgress != nil {
		src = io.TeeReader(body, &progressWriter{total: total, fn: u.onProgress})
	}

	written, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if copyErr != nil {
		return fmt.Errorf("update: write asset: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("update: flush asset: %w", closeErr)
	}
	if written == 0 {
		return fmt.Errorf("update: downloaded asset is empty")
	}
	return nil
}

// progressWriter translates byte counts into fraction callbacks
type progressWriter struct {
	total   int64
	written int64
	fn      ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.total > 0 {
		f := float64(p.written) / float64(p.total)
		if f > 1 {
			f = 1
		}
		p.fn(f)
	} else {
		p.fn(-1)
	}
	return len(b), nil
}
