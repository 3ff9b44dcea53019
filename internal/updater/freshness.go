package updater

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/kestrelmods/cfsync/internal/curse"
	"github.com/kestrelmods/cfsync/internal/store"
)

// Reason explains a freshness decision.
type Reason int

const (
	// Current means the local artifact matches the remote record.
	Current Reason = iota
	// MissingFileName marks a malformed record with no file name.
	MissingFileName
	// NotPresentLocally means no artifact exists at the expected path.
	NotPresentLocally
	// NoSyncMetadata means the ledger has no record for this file ID.
	NoSyncMetadata
	// DateChanged means the remote publication date differs from the ledger.
	DateChanged
	// SizeMismatch means the local artifact's byte size differs from the
	// remote record's declared size.
	SizeMismatch
	// LocalStatFailed means the local artifact could not be inspected.
	LocalStatFailed
	// HashChanged means the remote SHA-1 differs from the recorded one.
	HashChanged
)

// String returns a human-readable explanation for the reason.
func (r Reason) String() string {
	switch r {
	case Current:
		return "file is up to date"
	case MissingFileName:
		return "remote record has no file name"
	case NotPresentLocally:
		return "file not present locally"
	case NoSyncMetadata:
		return "no download metadata for this file"
	case DateChanged:
		return "remote file date changed"
	case SizeMismatch:
		return "local file size differs from remote"
	case LocalStatFailed:
		return "could not inspect local file"
	case HashChanged:
		return "remote file hash changed"
	}
	return "unknown"
}

// NeedsDownload decides whether the selected remote file must be fetched
// into dir, and why. Checks run cheapest-first; the first mismatch wins.
// The function is pure: it never mutates the ledger or the disk.
func NeedsDownload(selected *curse.File, dir string, state store.SyncState) (bool, Reason) {
	if selected.FileName == "" {
		return true, MissingFileName
	}

	localPath := filepath.Join(dir, selected.FileName)
	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return true, NotPresentLocally
	}

	rec, ok := state[strconv.Itoa(selected.ID)]
	if !ok {
		return true, NoSyncMetadata
	}

	if rec.FileDate != selected.FileDate {
		return true, DateChanged
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return true, LocalStatFailed
	}
	if info.Size() != selected.FileLength {
		return true, SizeMismatch
	}

	if remoteHash, ok := selected.SHA1(); ok && rec.Hash != nil && *rec.Hash != remoteHash {
		return true, HashChanged
	}

	return false, Current
}
