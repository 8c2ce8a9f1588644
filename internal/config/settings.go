package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/LifeAtul/YouVid-Downloader/internal/platform"
)

// Config file name, stored next to the binary by default
const FileName = "config.json"

// Theme options
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Audio format options
const (
	AudioFormatM4A = "m4a"
	AudioFormatMP3 = "mp3"
)

// Environment override keys, loaded from the process environment or a .env
// file in the manner of the repo's other CLI tooling
const (
	EnvDownloadDir = "YOUVID_DOWNLOAD_DIR"
	EnvAudioFormat = "YOUVID_AUDIO_FORMAT"
)

// Settings is the persisted preferences record. Field names mirror the
// on-disk JSON schema.
type Settings struct {
	DownloadFolder  string `json:"download_folder"`
	Theme           string `json:"theme"`
	AutoOpenFolder  bool   `json:"auto_open_folder"`
	AutoUpdateYTDLP bool   `json:"auto_update_ytdlp"`
	AudioFormat     string `json:"audio_format"`
	LastChecked     string `json:"last_checked"`
}

// Defaults returns the settings used when no config file exists or a key is
// missing from a stored one.
func Defaults() Settings {
	folder, err := platform.GetHomeDownloadsDir()
	if err != nil {
		folder = "downloads"
	}
	return Settings{
		DownloadFolder:  folder,
		Theme:           ThemeDark,
		AutoOpenFolder:  true,
		AutoUpdateYTDLP: true,
		AudioFormat:     AudioFormatM4A,
		LastChecked:     "",
	}
}

// Store owns the settings record: the rendering goroutine writes through it,
// worker goroutines read immutable snapshots taken at job start.
type Store struct {
	mu       sync.RWMutex
	path     string
	settings Settings
}

// Load reads the settings file at path, filling missing keys with defaults.
// A missing or unreadable file yields pure defaults; that is not an error.
func Load(path string) *Store {
	s := &Store{path: path, settings: Defaults()}

	data, err := os.ReadFile(path)
	if err == nil {
		// Unmarshal over the prefilled defaults so absent keys keep them
		loaded := Defaults()
		if json.Unmarshal(data, &loaded) == nil {
			s.settings = loaded
		}
	}

	s.applyEnvOverrides()
	return s
}

// Save writes the current record to disk
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.settings, "", "  ")
	path := s.path
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the current settings. Jobs hold this copy for
// their whole run, so a concurrent settings change never affects them.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update mutates the record under lock and persists it
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	fn(&s.settings)
	s.mu.Unlock()
	return s.Save()
}

// SetDownloadFolder records a new download folder
func (s *Store) SetDownloadFolder(folder string) error {
	return s.Update(func(set *Settings) { set.DownloadFolder = folder })
}

// SetLastChecked records the most recent yt-dlp release tag seen
func (s *Store) SetLastChecked(tag string) error {
	return s.Update(func(set *Settings) { set.LastChecked = tag })
}

func (s *Store) applyEnvOverrides() {
	if dir := os.Getenv(EnvDownloadDir); dir != "" {
		s.settings.DownloadFolder = dir
	}
	if format := os.Getenv(EnvAudioFormat); format == AudioFormatM4A || format == AudioFormatMP3 {
		s.settings.AudioFormat = format
	}
}

// DefaultPath returns the config file location next to the executable
func DefaultPath() string {
	return filepath.Join(platform.ExecutableDir(), FileName)
}
