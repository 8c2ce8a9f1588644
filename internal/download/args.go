package download

import (
	"github.com/LifeAtul/YouVid-Downloader/internal/model"
	"github.com/LifeAtul/YouVid-Downloader/internal/platform"
)

// yt-dlp flags
const (
	FlagFormat         = "-f"
	FlagOutput         = "-o"
	FlagExtractAudio   = "-x"
	FlagAudioFormat    = "--audio-format"
	FlagFFmpegLocation = "--ffmpeg-location"
	FlagMergeFormat    = "--merge-output-format"
	FlagYesPlaylist    = "--yes-playlist"
)

// Format selection and output templates
const (
	FormatBestVideoAudio = "bestvideo+bestaudio"
	MergeContainer       = "mp4"

	SingleOutputTemplate   = "%(title)s.%(ext)s"
	PlaylistOutputTemplate = "%(playlist_index)s - %(title)s.%(ext)s"
)

// BuildArgs constructs the full argument vector for a job. The vector is
// resolved completely before invocation; the runner never inspects it.
func BuildArgs(tools platform.Tools, job *model.Job) []string {
	switch job.Mode {
	case model.ModeAudio:
		return []string{
			tools.YTDLP,
			FlagExtractAudio,
			FlagAudioFormat, job.AudioFormat,
			FlagFFmpegLocation, tools.FFmpeg,
			FlagOutput, job.OutputTemplate(),
			job.URL,
		}
	case model.ModePlaylist:
		return []string{
			tools.YTDLP,
			FlagFormat, FormatBestVideoAudio,
			FlagFFmpegLocation, tools.FFmpeg,
			FlagYesPlaylist,
			FlagMergeFormat, MergeContainer,
			FlagOutput, job.OutputTemplate(),
			job.URL,
		}
	default:
		return []string{
			tools.YTDLP,
			FlagFormat, FormatBestVideoAudio,
			FlagFFmpegLocation, tools.FFmpeg,
			FlagMergeFormat, MergeContainer,
			FlagOutput, job.OutputTemplate(),
			job.URL,
		}
	}
}

// TemplateForMode returns the output filename template for a mode
func TemplateForMode(mode model.JobMode) string {
	if mode == model.ModePlaylist {
		return PlaylistOutputTemplate
	}
	return SingleOutputTemplate
}
