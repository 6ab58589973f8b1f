package session

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLifecycle(t *testing.T) {
	s := New()
	if s.Stage != StageAwaitingTranscript {
		t.Fatalf("expected initial stage awaiting_transcript, got %s", s.Stage)
	}

	if err := s.ApplyTranscript("customer feedback transcript"); err != nil {
		t.Fatalf("apply transcript: %v", err)
	}
	if err := s.ApplySummary("PREFERENCE PROFILE ..."); err != nil {
		t.Fatalf("apply summary: %v", err)
	}
	if s.Stage != StageAwaitingPost {
		t.Errorf("expected awaiting_post after summary, got %s", s.Stage)
	}

	if err := s.ApplyPost("generated post"); err != nil {
		t.Fatalf("apply post: %v", err)
	}
	if s.Stage != StageIterating {
		t.Errorf("expected iterating after post, got %s", s.Stage)
	}
	if len(s.Revisions) != 0 {
		t.Errorf("expected empty revision history after post, got %d", len(s.Revisions))
	}
}

func TestOutOfOrderTransitions(t *testing.T) {
	s := New()

	if err := s.ApplyPost("post"); !errors.Is(err, ErrWrongStage) {
		t.Errorf("expected ErrWrongStage applying post first, got %v", err)
	}
	if err := s.ApplyRevision(Revision{}); !errors.Is(err, ErrWrongStage) {
		t.Errorf("expected ErrWrongStage applying revision first, got %v", err)
	}
	if err := s.ApplySummary("summary"); !errors.Is(err, ErrWrongStage) {
		t.Errorf("expected ErrWrongStage applying summary without transcript, got %v", err)
	}

	// No backwards transition: once iterating, a new transcript is rejected.
	s = New()
	s.ApplyTranscript("t")
	s.ApplySummary("s")
	s.ApplyPost("p")
	if err := s.ApplyTranscript("another"); !errors.Is(err, ErrWrongStage) {
		t.Errorf("expected ErrWrongStage re-applying transcript, got %v", err)
	}
}

func TestCurrentPost_Derivation(t *testing.T) {
	s := New()
	s.ApplyTranscript("t")
	s.ApplySummary("s")
	s.ApplyPost("D")

	if got := s.CurrentPost(); got != "D" {
		t.Fatalf("expected original post with no revisions, got %q", got)
	}

	r1 := Revision{ID: uuid.New(), UserMessage: "shorter", RevisedPost: "r1 result", CreatedAt: time.Now()}
	r2 := Revision{ID: uuid.New(), UserMessage: "friendlier", RevisedPost: "r2 result", CreatedAt: time.Now()}
	s.ApplyRevision(r1)
	s.ApplyRevision(r2)

	if got := s.CurrentPost(); got != "r2 result" {
		t.Errorf("expected last revision's result, got %q", got)
	}
	if s.Revisions[0].RevisedPost != "r1 result" || s.Revisions[1].RevisedPost != "r2 result" {
		t.Error("revision history must preserve insertion order")
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.ApplyTranscript("t")
	s.ApplySummary("s")
	s.ApplyPost("p")
	s.ApplyRevision(Revision{ID: uuid.New(), UserMessage: "m", RevisedPost: "r"})
	s.Err = "some stale error"

	s.Reset()

	if s.Stage != StageAwaitingTranscript {
		t.Errorf("expected awaiting_transcript after reset, got %s", s.Stage)
	}
	if s.Transcript != "" || s.Summary != "" || s.Post != "" || s.Err != "" {
		t.Error("expected all artifacts cleared after reset")
	}
	if len(s.Revisions) != 0 {
		t.Errorf("expected empty revisions after reset, got %d", len(s.Revisions))
	}
}
