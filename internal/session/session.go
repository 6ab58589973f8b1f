// Package session models one user's trip through the pipeline as an owned
// value with pure state transitions. The stage only ever moves forward;
// Reset is the single way back to the start.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage is the session's position in the pipeline.
type Stage int

const (
	StageAwaitingTranscript Stage = iota
	StageAwaitingPost
	StageIterating
)

func (s Stage) String() string {
	switch s {
	case StageAwaitingTranscript:
		return "awaiting_transcript"
	case StageAwaitingPost:
		return "awaiting_post"
	case StageIterating:
		return "iterating"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ErrWrongStage is returned when a transition is applied out of order.
var ErrWrongStage = errors.New("session: wrong stage")

// Revision is one request/result pair from the iteration loop. Entries are
// append-only and never mutated.
type Revision struct {
	ID          uuid.UUID
	UserMessage string
	RevisedPost string
	CreatedAt   time.Time
}

// Session is the aggregate of everything one run has produced. A zero value
// is not usable; construct with New.
type Session struct {
	Stage      Stage
	Transcript string
	Summary    string
	Post       string
	Revisions  []Revision
	Err        string
}

func New() *Session {
	return &Session{Stage: StageAwaitingTranscript}
}

// ApplyTranscript records the raw transcript. Valid only before analysis.
func (s *Session) ApplyTranscript(transcript string) error {
	if s.Stage != StageAwaitingTranscript {
		return fmt.Errorf("%w: have %s, transcript accepted only in %s", ErrWrongStage, s.Stage, StageAwaitingTranscript)
	}
	s.Transcript = transcript
	return nil
}

// ApplySummary records the extracted preference profile and advances to
// awaiting-post.
func (s *Session) ApplySummary(summary string) error {
	if s.Stage != StageAwaitingTranscript {
		return fmt.Errorf("%w: have %s, summary accepted only in %s", ErrWrongStage, s.Stage, StageAwaitingTranscript)
	}
	if s.Transcript == "" {
		return fmt.Errorf("%w: no transcript recorded", ErrWrongStage)
	}
	s.Summary = summary
	s.Stage = StageAwaitingPost
	return nil
}

// ApplyPost records the generated post, clears any previous revision history
// and enters the iteration loop.
func (s *Session) ApplyPost(post string) error {
	if s.Stage != StageAwaitingPost {
		return fmt.Errorf("%w: have %s, post accepted only in %s", ErrWrongStage, s.Stage, StageAwaitingPost)
	}
	s.Post = post
	s.Revisions = nil
	s.Stage = StageIterating
	return nil
}

// ApplyRevision appends one revision entry. Only valid while iterating.
func (s *Session) ApplyRevision(rev Revision) error {
	if s.Stage != StageIterating {
		return fmt.Errorf("%w: have %s, revisions accepted only in %s", ErrWrongStage, s.Stage, StageIterating)
	}
	s.Revisions = append(s.Revisions, rev)
	return nil
}

// CurrentPost derives the post any further revision applies to: the result of
// the last revision, or the originally generated post when none exist. It is
// recomputed on every call so history and current text cannot diverge.
func (s *Session) CurrentPost() string {
	if n := len(s.Revisions); n > 0 {
		return s.Revisions[n-1].RevisedPost
	}
	return s.Post
}

// Reset clears every artifact and returns to awaiting-transcript.
func (s *Session) Reset() {
	*s = Session{Stage: StageAwaitingTranscript}
}
