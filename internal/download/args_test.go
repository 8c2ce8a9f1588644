package download

import (
	"strings"
	"testing"

	"github.com/LifeAtul/YouVid-Downloader/internal/model"
	"github.com/LifeAtul/YouVid-Downloader/internal/platform"
)

var testTools = platform.Tools{
	YTDLP:  "/opt/tools/yt-dlp",
	FFmpeg: "/opt/tools/ffmpeg",
}

func TestBuildArgsVideo(t *testing.T) {
	job := &model.Job{
		URL:        "https://youtu.be/abc",
		Mode:       model.ModeVideo,
		OutputDir:  "/data/media",
		OutputTmpl: SingleOutputTemplate,
	}

	got := BuildArgs(testTools, job)
	want := []string{
		"/opt/tools/yt-dlp",
		"-f", "bestvideo+bestaudio",
		"--ffmpeg-location", "/opt/tools/ffmpeg",
		"--merge-output-format", "mp4",
		"-o", "/data/media/%(title)s.%(ext)s",
		"https://youtu.be/abc",
	}
	assertArgs(t, got, want)
}

func TestBuildArgsAudio(t *testing.T) {
	job := &model.Job{
		URL:         "https://youtu.be/abc",
		Mode:        model.ModeAudio,
		OutputDir:   "/data/media",
		OutputTmpl:  SingleOutputTemplate,
		AudioFormat: "mp3",
	}

	got := BuildArgs(testTools, job)
	want := []string{
		"/opt/tools/yt-dlp",
		"-x",
		"--audio-format", "mp3",
		"--ffmpeg-location", "/opt/tools/ffmpeg",
		"-o", "/data/media/%(title)s.%(ext)s",
		"https://youtu.be/abc",
	}
	assertArgs(t, got, want)
}

func TestBuildArgsPlaylist(t *testing.T) {
	job := &model.Job{
		URL:        "https://www.youtube.com/playlist?list=PL123",
		Mode:       model.ModePlaylist,
		OutputDir:  "/data/media",
		OutputTmpl: PlaylistOutputTemplate,
	}

	got := BuildArgs(testTools, job)

	if got[0] != testTools.YTDLP {
		t.Errorf("argv[0] = %q, want yt-dlp path", got[0])
	}
	joined := strings.Join(got, " ")
	for _, part := range []string{
		"--yes-playlist",
		"-f bestvideo+bestaudio",
		"--merge-output-format mp4",
		"%(playlist_index)s - %(title)s.%(ext)s",
	} {
		if !strings.Contains(joined, part) {
			t.Errorf("argv missing %q: %s", part, joined)
		}
	}
	if got[len(got)-1] != job.URL {
		t.Errorf("URL must be the final argument, got %q", got[len(got)-1])
	}
}

func TestTemplateForMode(t *testing.T) {
	if got := TemplateForMode(model.ModePlaylist); got != PlaylistOutputTemplate {
		t.Errorf("playlist template = %q", got)
	}
	if got := TemplateForMode(model.ModeVideo); got != SingleOutputTemplate {
		t.Errorf("video template = %q", got)
	}
	if got := TemplateForMode(model.ModeAudio); got != SingleOutputTemplate {
		t.Errorf("audio template = %q", got)
	}
}

func assertArgs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("argv length = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
