package storage

import "io"

// Store holds the temporary media assets created for an in-flight analysis
// request. Assets are scoped resources: the request that created them must
// remove them on every exit path.
type Store interface {
	// Save writes the reader to a new file and returns its absolute path.
	Save(r io.Reader, ext string) (string, error)
	// NewPath reserves a path for an externally produced file (ffmpeg output).
	NewPath(ext string) string
	// Remove deletes one asset. Removing an already-deleted asset is not an
	// error.
	Remove(path string) error
}
