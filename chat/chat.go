package chat

import (
	"sync"

	"github.com/mkarev/shclient/models"
)

// Log is an append-only view of the table talk carried in snapshots. The
// server owns ordering; the log only ever grows from what snapshots assert.
type Log struct {
	mu      sync.RWMutex
	entries []models.ChatEntry
}

func NewLog() *Log {
	return &Log{}
}

// Sync adopts the snapshot's history when it is at least as long as what we
// hold; a shorter history (e.g. right after a reconnect handshake) never
// truncates the log.
func (l *Log) Sync(history []models.ChatEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(history) < len(l.entries) {
		return
	}
	l.entries = append(l.entries[:0], history...)
}

func (l *Log) Entries() []models.ChatEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.ChatEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
