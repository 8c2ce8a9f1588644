package model

// Package model defines domain data structures used across the app: download
// jobs, batch items, and status/phase enums. State transitions are driven by
// classified yt-dlp output lines and explicit run results.
