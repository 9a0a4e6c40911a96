package ports

// Storage caches tag records per file so unchanged files skip re-tagging on
// regeneration. The backing store (bbolt) lives under the repository's
// .repomapper directory, which is always ignored by the mapper itself.
//
// Entries are keyed by relative path and guarded by a content hash: a lookup
// with a stale hash is a miss, never wrong data. Writes are transactional.
type Storage interface {
	// LoadRecords returns the cached records for path if the stored content
	// hash equals hash. The second return is false on miss (absent entry or
	// hash mismatch). A miss is not an error.
	LoadRecords(path, hash string) ([]TagRecord, bool, error)

	// SaveRecords stores the records for path under the given content hash,
	// replacing any prior entry. An empty record slice is a valid entry
	// (the file defines no symbols).
	SaveRecords(path, hash string, recs []TagRecord) error

	// Close releases the underlying store. Safe to call once.
	Close() error
}
