package tracing

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closingBuffer) Close() error {
	b.closed = true
	return nil
}

func TestAuditTrailWritesJsonLines(t *testing.T) {
	buffer := &closingBuffer{}
	trail := NewAuditTrailWriter(NewNopLogger(), buffer)

	trail.Record(AuditEntry{RequestId: "r-1", Attempt: 1, Model: "m", Outcome: "transient", Prompt: "p"})
	trail.Record(AuditEntry{RequestId: "r-1", Attempt: 2, Model: "m", Outcome: "success", Prompt: "p", Response: "ok", Cost: "0.1", TotalCost: "0.1"})

	if err := trail.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !buffer.closed {
		t.Error("destination was not closed")
	}

	var entries []AuditEntry
	scanner := bufio.NewScanner(&buffer.Buffer)
	for scanner.Scan() {
		var entry AuditEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line %q is not json: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}

	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Attempt != 1 || entries[1].Response != "ok" {
		t.Errorf("entries = %+v", entries)
	}
	if entries[0].Time.IsZero() {
		t.Error("record should stamp the time")
	}
}

func TestAuditTrailAfterClose(t *testing.T) {
	trail := NewAuditTrailWriter(NewNopLogger(), &closingBuffer{})
	if err := trail.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	trail.Record(AuditEntry{RequestId: "late"})
	if trail.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", trail.Dropped())
	}
	if err := trail.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestAuditTrailDisabled(t *testing.T) {
	var nilTrail *AuditTrail
	nilTrail.Record(AuditEntry{})
	if err := nilTrail.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}

	trail, err := NewAuditTrail(NewNopLogger(), "")
	if err != nil {
		t.Fatalf("NewAuditTrail() error = %v", err)
	}
	trail.Record(AuditEntry{RequestId: "ignored"})
	if err := trail.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestAuditTrailAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	for _, id := range []string{"first", "second"} {
		trail, err := NewAuditTrail(NewNopLogger(), path)
		if err != nil {
			t.Fatalf("NewAuditTrail() error = %v", err)
		}
		trail.Record(AuditEntry{RequestId: id})
		if err := trail.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if lines := bytes.Count(content, []byte("\n")); lines != 2 {
		t.Errorf("lines = %d, want 2", lines)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"debug", "DEBUG"},
		{" WARN ", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
		{"verbose", "INFO"},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.value).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.value, got, tt.want)
		}
	}
}
