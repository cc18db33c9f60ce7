package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenInMemory(t *testing.T) {
	s := openTestStore(t)
	if s.SessionID() == "" {
		t.Error("session id should be set")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	if err := s.RecordMessage("user", "hello", ""); err != nil {
		t.Fatalf("record message: %v", err)
	}
}

func TestTranscriptOrder(t *testing.T) {
	s := openTestStore(t)

	turns := []struct{ role, content, sources string }{
		{"user", "What changed?", ""},
		{"assistant", "X", "Sources: 1, 2"},
		{"user", "Why?", ""},
	}
	for _, turn := range turns {
		if err := s.RecordMessage(turn.role, turn.content, turn.sources); err != nil {
			t.Fatalf("record message: %v", err)
		}
	}

	entries, err := s.Transcript()
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, turn := range turns {
		if entries[i].Role != turn.role || entries[i].Content != turn.content || entries[i].Sources != turn.sources {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], turn)
		}
	}
}

func TestTranscriptEmptySession(t *testing.T) {
	s := openTestStore(t)

	entries, err := s.Transcript()
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestRecordReportView(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordReportView("p1", "Acme", "daily", "2026-08-30"); err != nil {
		t.Fatalf("record report view: %v", err)
	}
	if err := s.RecordReportView("", "", "aggregated", ""); err != nil {
		t.Fatalf("record aggregated view: %v", err)
	}

	n, err := s.ReportViewCount()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
