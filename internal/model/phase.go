package model

// Phase represents the current stage label of a running job. It is derived
// from classified yt-dlp output lines, never set directly by the UI.
type Phase string

const (
	// PhaseFetching means metadata is being fetched before any media transfer
	PhaseFetching Phase = "fetching"

	// PhaseDownloadingVideo means a video stream file is being written
	PhaseDownloadingVideo Phase = "downloading-video"

	// PhaseDownloadingAudio means an audio stream file is being written
	PhaseDownloadingAudio Phase = "downloading-audio"

	// PhaseMerging means ffmpeg is merging separate audio/video streams
	PhaseMerging Phase = "merging"

	// PhaseExtractingAudio means ffmpeg is extracting an audio track
	PhaseExtractingAudio Phase = "extracting-audio"

	// PhaseFinished means the job completed successfully
	PhaseFinished Phase = "finished"

	// PhaseFailed means the external tool exited nonzero
	PhaseFailed Phase = "failed"

	// PhaseCancelled means the user cancelled the run
	PhaseCancelled Phase = "cancelled"
)

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// IsTerminal returns true if the phase marks the end of a job run
func (p Phase) IsTerminal() bool {
	return p == PhaseFinished || p == PhaseFailed || p == PhaseCancelled
}

// Label returns a human readable label for the phase
func (p Phase) Label() string {
	switch p {
	case PhaseFetching:
		return "Fetching"
	case PhaseDownloadingVideo:
		return "Downloading video"
	case PhaseDownloadingAudio:
		return "Downloading audio"
	case PhaseMerging:
		return "Merging"
	case PhaseExtractingAudio:
		return "Extracting audio"
	case PhaseFinished:
		return "Finished"
	case PhaseFailed:
		return "Failed"
	case PhaseCancelled:
		return "Cancelled"
	}
	return string(p)
}
