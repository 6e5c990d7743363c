package store

import (
	"testing"
)

func TestRecordAndTail(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	subs := []Submission{
		{Username: "alice", CourseID: 1, CourseName: "c1", SectionID: 1000, SectionName: "s1",
			Attempts: 1, Score: 100, StudyTime: 200, Status: StatusOK},
		{Username: "alice", CourseID: 1, CourseName: "c1", SectionID: 2000, SectionName: "s2",
			Attempts: 4, Score: 0, StudyTime: 0, Status: StatusFailed},
	}
	for _, sub := range subs {
		if err := s.Record(sub); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := s.Tail(10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	// chronological order, oldest first
	if got[0].SectionID != 1000 || got[1].SectionID != 2000 {
		t.Fatalf("rows out of order: %+v", got)
	}
	if got[1].Status != StatusFailed || got[1].Attempts != 4 {
		t.Fatalf("row = %+v", got[1])
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatal("created_at not recorded")
	}
}

func TestTailRespectsLimit(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	for i := int64(0); i < 5; i++ {
		if err := s.Record(Submission{Username: "u", SectionID: i, Status: StatusOK}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := s.Tail(2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	// the two most recent, oldest first
	if got[0].SectionID != 3 || got[1].SectionID != 4 {
		t.Fatalf("rows = %+v", got)
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// reopen against the existing file
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if _, err := s2.Tail(1); err != nil {
		t.Fatalf("Tail on reopened store: %v", err)
	}
}
