package platform

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/LifeAtul/YouVid-Downloader/internal/model"
)

// Output markers emitted by yt-dlp
const (
	DestinationMarker  = "Destination:"
	AlreadyMarker      = "has already been downloaded"
	MergeMarker        = "Merging formats into"
	ExtractAudioMarker = "[ExtractAudio]"
)

var (
	percentRe      = regexp.MustCompile(`(\d{1,3}\.\d+)%`)
	playlistItemRe = regexp.MustCompile(`Downloading video (\d+) of (\d+)`)
)

// Extensions classifying a Destination line into a download phase
var (
	videoExtensions = map[string]bool{
		".mp4": true, ".webm": true, ".mkv": true, ".avi": true, ".mov": true,
	}
	audioExtensions = map[string]bool{
		".m4a": true, ".mp3": true, ".opus": true, ".aac": true, ".wav": true,
	}
)

// LineEventKind identifies what a classified output line means
type LineEventKind int

const (
	// LineRaw is any line not matching a recognized pattern; forwarded to the log sink verbatim
	LineRaw LineEventKind = iota

	// LineProgress carries a download percentage
	LineProgress

	// LineDestination announces a new output file (phase + display title)
	LineDestination

	// LineAlreadyDownloaded marks the current file as already complete
	LineAlreadyDownloaded

	// LineMerging marks the merge stage; progress is forced to 100%
	LineMerging

	// LineExtractingAudio marks the audio extraction stage
	LineExtractingAudio

	// LinePlaylistItem updates the current/total playlist counters
	LinePlaylistItem
)

// LineEvent is the structured result of classifying one raw output line.
// Raw always holds the original line so callers can log it.
type LineEvent struct {
	Kind     LineEventKind
	Fraction float64     // LineProgress: 0.0 to 1.0
	Phase    model.Phase // LineDestination, LineMerging, LineExtractingAudio
	Title    string      // LineDestination: basename without extension
	Path     string      // LineDestination: full announced path
	Index    int         // LinePlaylistItem
	Total    int         // LinePlaylistItem
	Raw      string
}

// ClassifyLine maps one raw yt-dlp output line to a structured event. It is
// a pure function: the same deterministic rules apply to single, batch and
// playlist runs.
func ClassifyLine(line string) LineEvent {
	ev := LineEvent{Kind: LineRaw, Raw: line}

	if strings.Contains(line, AlreadyMarker) {
		ev.Kind = LineAlreadyDownloaded
		ev.Fraction = 1.0
		return ev
	}

	if strings.Contains(line, ExtractAudioMarker) {
		ev.Kind = LineExtractingAudio
		ev.Phase = model.PhaseExtractingAudio
		if path, ok := destinationPath(line); ok {
			ev.Path = path
			ev.Title = titleFromPath(path)
		}
		return ev
	}

	if strings.Contains(line, MergeMarker) {
		ev.Kind = LineMerging
		ev.Phase = model.PhaseMerging
		ev.Fraction = 1.0
		return ev
	}

	if path, ok := destinationPath(line); ok {
		ev.Kind = LineDestination
		ev.Path = path
		ev.Title = titleFromPath(path)
		ev.Phase = phaseFromExtension(path)
		return ev
	}

	// First percentage match on the line wins
	if m := percentRe.FindStringSubmatch(line); m != nil {
		if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
			ev.Kind = LineProgress
			ev.Fraction = clampFraction(pct / 100.0)
			return ev
		}
	}

	if m := playlistItemRe.FindStringSubmatch(line); m != nil {
		index, errI := strconv.Atoi(m[1])
		total, errT := strconv.Atoi(m[2])
		if errI == nil && errT == nil {
			ev.Kind = LinePlaylistItem
			ev.Index = index
			ev.Total = total
			return ev
		}
	}

	return ev
}

func destinationPath(line string) (string, bool) {
	idx := strings.Index(line, DestinationMarker)
	if idx < 0 {
		return "", false
	}
	path := strings.TrimSpace(line[idx+len(DestinationMarker):])
	if path == "" {
		return "", false
	}
	return path, true
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func phaseFromExtension(path string) model.Phase {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case videoExtensions[ext]:
		return model.PhaseDownloadingVideo
	case audioExtensions[ext]:
		return model.PhaseDownloadingAudio
	}
	return ""
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
