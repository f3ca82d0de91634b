package cache

import "time"

// SelfName is the key name reserved for the manager's own release archives.
const SelfName = "self"

// Key identifies one cached archive.
type Key struct {
	Name     string
	Version  string
	Platform string
}

// Info represents cache information.
type Info struct {
	Directory   string
	TotalSize   int64
	Files       int
	Packages    int
	LastCleaned time.Time
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed   int64
	FilesRemoved int
}
