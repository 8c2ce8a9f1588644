package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Bundled tool directory names, relative to the executable
const (
	YTDLPDirName  = "ytdlp"
	FFmpegDirName = "ffmpeg"

	YTDLPBinary  = "yt-dlp"
	FFmpegBinary = "ffmpeg"
)

// ErrMissingTool means a required external binary could not be located.
// Surfaced as a blocking error before any job starts.
var ErrMissingTool = errors.New("required external tool not found")

// Tools holds resolved paths to the external binaries
type Tools struct {
	YTDLP  string
	FFmpeg string
}

// BinaryName appends .exe on Windows
func BinaryName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// LocateTools resolves yt-dlp and ffmpeg. Bundled copies under baseDir take
// precedence over anything on PATH, so a self-updated yt-dlp is always the
// one invoked.
func LocateTools(baseDir string) (Tools, error) {
	var tools Tools
	var missing []string

	tools.YTDLP = locateOne(baseDir, YTDLPDirName, YTDLPBinary)
	if tools.YTDLP == "" {
		missing = append(missing, YTDLPBinary)
	}

	tools.FFmpeg = locateOne(baseDir, FFmpegDirName, FFmpegBinary)
	if tools.FFmpeg == "" {
		missing = append(missing, FFmpegBinary)
	}

	if len(missing) > 0 {
		return tools, fmt.Errorf("%w: %s", ErrMissingTool, strings.Join(missing, ", "))
	}
	return tools, nil
}

// BundledToolPath returns the expected path of a bundled tool binary,
// whether or not it exists yet. The updater installs to this location.
func BundledToolPath(baseDir, dirName, binary string) string {
	return filepath.Join(baseDir, dirName, BinaryName(binary))
}

// ExecutableDir returns the directory containing the running binary,
// falling back to the working directory.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func locateOne(baseDir, dirName, binary string) string {
	bundled := BundledToolPath(baseDir, dirName, binary)
	if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
		return bundled
	}
	if path, err := exec.LookPath(binary); err == nil {
		return path
	}
	return ""
}
