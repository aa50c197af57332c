package service

import (
	"sync"

	"valuebot/internal/storage"
)

// DedupLedger guards against re-alerting an edge that persists across poll
// cycles. The durable store is the sole authority (CreateBetIfAbsent is the
// real gate); this is a read-through projection warmed from the store on
// startup so the common repeat case skips a write attempt.
type DedupLedger struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewDedupLedger rebuilds the projection from the durable store so dedup
// history survives restarts.
func NewDedupLedger() (*DedupLedger, error) {
	ids, err := storage.LoadBetIDs()
	if err != nil {
		return nil, err
	}
	return &DedupLedger{seen: ids}, nil
}

// Seen reports whether the bet id has already been surfaced.
func (l *DedupLedger) Seen(betID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[betID]
}

// Remember marks a bet id as surfaced.
func (l *DedupLedger) Remember(betID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[betID] = true
}
