// Package cache remembers what was last written to each export sheet so an
// unchanged sheet is not rewritten on every ledger change.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

var _ Cache[string] = (*LRUCache[string])(nil)

// Fingerprint hashes the JSON encoding of v.
func Fingerprint(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// ExportLog maps a sheet name to the fingerprint of its last successful
// export. Entries expire after ttl so a sheet edited by hand is eventually
// overwritten again.
type ExportLog struct {
	entries Cache[string]
}

func NewExportLog(maxSheets int, ttl time.Duration) *ExportLog {
	return &ExportLog{entries: NewLRUCache[string](maxSheets, ttl)}
}

// Unchanged reports whether sheet was last exported with fingerprint.
func (l *ExportLog) Unchanged(sheet, fingerprint string) bool {
	last, ok := l.entries.Get(sheet)
	return ok && last == fingerprint
}

// Record notes a successful export of sheet.
func (l *ExportLog) Record(sheet, fingerprint string) {
	l.entries.Set(sheet, fingerprint)
}

// Forget drops sheet so its next export always runs.
func (l *ExportLog) Forget(sheet string) {
	l.entries.Delete(sheet)
}

// Len is the number of sheets currently remembered.
func (l *ExportLog) Len() int {
	return l.entries.Size()
}
