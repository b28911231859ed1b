package core

import "errors"

// Typed error classification for the persistence layer. Callers should match
// with errors.Is instead of sniffing error text.
var (
	// ErrNotFound signals that a requested document or tenant configuration
	// does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrCorrupt signals that bytes exist on disk but cannot be decoded.
	ErrCorrupt = errors.New("document is corrupt")

	// ErrSerialization signals that a value cannot be encoded.
	ErrSerialization = errors.New("document cannot be encoded")

	// ErrVersionControl signals a failed ledger operation (init, stage, commit).
	// A document write that already completed stays valid regardless.
	ErrVersionControl = errors.New("version control operation failed")

	// ErrConflict signals that a document with the same identity already exists.
	ErrConflict = errors.New("document already exists")
)
