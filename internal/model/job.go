package model

import (
	"fmt"
	"path/filepath"
	"time"
)

// JobMode selects which yt-dlp invocation a job performs
type JobMode string

const (
	// ModeVideo downloads best video+audio and merges into one container
	ModeVideo JobMode = "video"

	// ModeAudio extracts an audio-only file
	ModeAudio JobMode = "audio"

	// ModePlaylist downloads every entry of a playlist
	ModePlaylist JobMode = "playlist"
)

// Job represents one invocation of the external download tool. It is
// constructed immediately before launch and discarded after the process
// exits; nothing here is persisted.
type Job struct {
	ID          string
	URL         string
	Mode        JobMode
	OutputDir   string
	OutputTmpl  string // yt-dlp output template, e.g. "%(title)s.%(ext)s"
	AudioFormat string // "m4a" or "mp3", audio mode only
	StartedAt   time.Time
	FinishedAt  time.Time

	// Derived, not authoritative: last observed values from output lines
	Progress float64 // 0.0 to 1.0
	Phase    Phase
	Title    string

	// Playlist item counters from "Downloading video i of n" lines.
	// ItemTotal is 0 when the flat-playlist probe failed (unknown total).
	ItemIndex int
	ItemTotal int

	ExitCode  int
	LastError string
}

// OutputTemplate returns the full yt-dlp -o value for the job
func (j *Job) OutputTemplate() string {
	return filepath.Join(j.OutputDir, j.OutputTmpl)
}

// DisplayTitle returns the detected title, falling back to the URL
func (j *Job) DisplayTitle() string {
	if j.Title != "" {
		return j.Title
	}
	return j.URL
}

// ItemLabel returns the "item i/n" counter label for playlist runs. The
// total is "?" when playlist metadata could not be parsed.
func (j *Job) ItemLabel() string {
	if j.Mode != ModePlaylist || j.ItemIndex == 0 {
		return ""
	}
	if j.ItemTotal > 0 {
		return fmt.Sprintf("item %d/%d", j.ItemIndex, j.ItemTotal)
	}
	return fmt.Sprintf("item %d/?", j.ItemIndex)
}
