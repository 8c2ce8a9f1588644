package update

// Package update keeps the bundled yt-dlp binary current. It queries the
// GitHub releases API for the latest tag, skips work when the tag matches the
// last one applied, and otherwise downloads the per-platform asset next to
// the existing binary before swapping it in atomically. Every failure here is
// advisory; the application continues with the binary it already has.
