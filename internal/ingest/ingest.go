// Package ingest finds documents on disk: a one-shot directory scan and an
// fsnotify watcher for drop folders.
package ingest

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
	Failed  uint32
}

// ScanOptions controls Discover.
type ScanOptions struct {
	Recursive  bool
	SkipHidden bool
	Exts       map[string]struct{} // lowercased sans '.'; nil -> constants.AllowedExtensions
}
