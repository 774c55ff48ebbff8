package tracing

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const auditBuffer = 256

// AuditEntry is one backend attempt as written to the audit file.
type AuditEntry struct {
	Time      time.Time `json:"time"`
	RequestId string    `json:"request_id"`
	Attempt   int       `json:"attempt"`
	Model     string    `json:"model"`
	Outcome   string    `json:"outcome"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response,omitempty"`
	Error     string    `json:"error,omitempty"`
	Cost      string    `json:"cost,omitempty"`
	TotalCost string    `json:"total_cost"`
}

// AuditTrail appends attempts to a JSON-lines file from a single writer goroutine.
// Record never blocks: when the buffer is full the entry is dropped and counted.
type AuditTrail struct {
	log     *Logger
	w       io.WriteCloser
	entries chan AuditEntry
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

func NewAuditTrail(log *Logger, path string) (*AuditTrail, error) {
	if path == "" {
		log.I("Audit trail disabled")
		return newAuditTrail(log, nil), nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.E("failed to open audit trail", InnerError, err, "path", path)
		return nil, err
	}

	log.I("Audit trail opened", "path", path)
	return newAuditTrail(log, file), nil
}

// NewAuditTrailWriter is used where the destination is not a file.
func NewAuditTrailWriter(log *Logger, w io.WriteCloser) *AuditTrail {
	return newAuditTrail(log, w)
}

func newAuditTrail(log *Logger, w io.WriteCloser) *AuditTrail {
	a := &AuditTrail{log: log, w: w, done: make(chan struct{})}
	if w == nil {
		close(a.done)
		return a
	}

	a.entries = make(chan AuditEntry, auditBuffer)
	go a.drain()
	return a
}

func (a *AuditTrail) Record(entry AuditEntry) {
	if a == nil || a.entries == nil {
		return
	}

	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.dropped.Add(1)
		return
	}

	select {
	case a.entries <- entry:
	default:
		a.dropped.Add(1)
	}
}

func (a *AuditTrail) Dropped() int64 {
	return a.dropped.Load()
}

func (a *AuditTrail) drain() {
	defer close(a.done)

	encoder := json.NewEncoder(a.w)
	for entry := range a.entries {
		if err := encoder.Encode(entry); err != nil {
			a.log.W("failed to write audit entry", InnerError, err, RequestId, entry.RequestId)
		}
	}
}

// Close flushes pending entries and closes the destination.
func (a *AuditTrail) Close() error {
	if a == nil {
		return nil
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	if a.entries != nil {
		close(a.entries)
	}
	a.mu.Unlock()

	<-a.done
	if dropped := a.dropped.Load(); dropped > 0 {
		a.log.W("Audit entries dropped", "dropped", dropped)
	}
	if a.w != nil {
		return a.w.Close()
	}
	return nil
}
