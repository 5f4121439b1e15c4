package db

import (
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []Run{
		{ID: "a", SubmittedAt: base, Endpoint: "https://www.bing.com/indexnow", URLCount: 3, StatusCode: 200, Status: StatusSubmitted},
		{ID: "b", SubmittedAt: base.Add(time.Hour), Endpoint: "https://www.bing.com/indexnow", URLCount: 3, StatusCode: 403, Status: StatusRejected, Message: "HTTP 403: forbidden"},
		{ID: "c", SubmittedAt: base.Add(2 * time.Hour), Endpoint: "https://www.bing.com/indexnow", URLCount: 4, Status: StatusDryRun},
	}
	for _, r := range runs {
		if err := s.Record(r); err != nil {
			t.Fatalf("Record(%s): %v", r.ID, err)
		}
	}

	got, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d runs", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("Recent order = %s,%s, want c,b", got[0].ID, got[1].ID)
	}
	if got[1].StatusCode != 403 || got[1].Message != "HTTP 403: forbidden" {
		t.Errorf("run b = %+v", got[1])
	}
	if !got[0].SubmittedAt.Equal(runs[2].SubmittedAt) {
		t.Errorf("SubmittedAt = %v, want %v", got[0].SubmittedAt, runs[2].SubmittedAt)
	}
}

func TestReset(t *testing.T) {
	s := openTemp(t)
	for _, id := range []string{"x", "y"} {
		if err := s.Record(Run{ID: id, SubmittedAt: time.Now(), Status: StatusFailed}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	n, err := s.Reset()
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if n != 2 {
		t.Errorf("Reset removed %d rows, want 2", n)
	}
	got, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("history not empty after Reset: %v", got)
	}
}

func TestRecordDuplicateID(t *testing.T) {
	s := openTemp(t)
	r := Run{ID: "dup", SubmittedAt: time.Now(), Status: StatusSubmitted}
	if err := s.Record(r); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(r); err == nil {
		t.Error("recording the same run id twice: expected error")
	}
}
