package download

// Package download implements the orchestration pipeline on top of the
// external yt-dlp binary: per-mode argument building, single/batch/playlist
// flows, status propagation to the UI queue, and cooperative cancellation.
// All of it runs on a worker goroutine; nothing here blocks the renderer.
