package platform

// Package platform contains OS/platform integration and external tooling
// glue: the yt-dlp process runner, output line classification, flat-playlist
// probing, tool discovery, and filesystem helpers.
