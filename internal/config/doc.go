package config

// Package config manages the persisted application settings record. The
// schema is forward compatible: loading a file written by an older version
// fills any missing key with its default. Jobs take value snapshots so
// worker goroutines never read a record the UI goroutine is mutating.
