// Package logmanager defines the write-ahead-log collaborator the buffer
// pool may coordinate with before writing a dirty page back to disk. The
// interface is grounded on the teacher's
// src/pkg/common/interfaces.go (ITxnLoggerWithContext), trimmed to the one
// seam spec.md §6 actually calls for: flushing log records up to a page's
// LSN before that page's writeback. The buffer pool's own record content
// (Begin/Commit/Insert/...) is out of this module's scope.
package logmanager

// LSN is a log sequence number. NilLSN means "no log record associated".
type LSN uint64

const NilLSN LSN = 0

// Manager is the WAL coordination point a buffer pool may hold. It may be
// nil/absent, per spec.md §6 ("May be absent (null) for testing").
type Manager interface {
	// FlushUpTo durably persists every log record up to and including lsn.
	// A buffer pool coordinating with a real WAL would call this before
	// writing back a dirty page whose last modification is recorded at
	// lsn, so the log always precedes the data it describes.
	FlushUpTo(lsn LSN) error
}

// NopManager satisfies Manager without doing anything. It lets a buffer
// pool be constructed identically whether or not WAL coordination is
// actually in play, matching spec.md §6's "may be absent (null)".
type NopManager struct{}

var _ Manager = NopManager{}

func (NopManager) FlushUpTo(LSN) error { return nil }
