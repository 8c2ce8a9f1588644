package platform

import (
	"context"
	"encoding/json"
	"strings"
)

// Flags for the metadata-only playlist invocation
const (
	FlagFlatPlaylist = "--flat-playlist"
	FlagDumpJSON     = "-J"
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// PlaylistEntry is one enumerated item of a flat playlist listing
type PlaylistEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PlaylistInfo is the parsed result of a flat-playlist probe
type PlaylistInfo struct {
	Title   string          `json:"title"`
	Entries []PlaylistEntry `json:"entries"`
}

// Count returns the number of enumerated entries
func (p *PlaylistInfo) Count() int {
	return len(p.Entries)
}

// IsPlaylistURL checks whether a URL carries a playlist parameter
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistParam)
}

// ExtractPlaylistID extracts the playlist ID from the common URL formats:
// watch URLs with a list parameter and direct /playlist?list= URLs.
func ExtractPlaylistID(url string) string {
	if !strings.Contains(url, PlaylistParam) {
		return ""
	}
	parts := strings.SplitN(url, PlaylistParam, 2)
	if len(parts) < 2 {
		return ""
	}
	id := parts[1]
	if i := strings.Index(id, ParamSeparator); i >= 0 {
		id = id[:i]
	}
	return id
}

// ProbePlaylist runs a metadata-only flat-playlist invocation and parses the
// JSON listing. A nonzero exit or malformed JSON yields (nil, false): the
// caller proceeds with an unknown total instead of failing the download.
func ProbePlaylist(ctx context.Context, runner *Runner, ytdlpPath, url string) (*PlaylistInfo, bool) {
	code, out, err := runner.Run(ctx, []string{ytdlpPath, FlagFlatPlaylist, FlagDumpJSON, url}, nil)
	if err != nil || code != CodeSuccess {
		return nil, false
	}
	info, ok := ParsePlaylistJSON(out)
	if !ok {
		return nil, false
	}
	return info, true
}

// ParsePlaylistJSON parses the -J output of a flat-playlist invocation
func ParsePlaylistJSON(out string) (*PlaylistInfo, bool) {
	var info PlaylistInfo
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &info); err != nil {
		return nil, false
	}
	if info.Entries == nil {
		return nil, false
	}
	return &info, true
}
