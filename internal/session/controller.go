package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/virio-ai/quill/internal/pipeline"
)

// Controller drives the pipeline against one owned session. A mutex
// serializes stage calls, so revision entries land in submission order and no
// stage runs before its input artifact exists.
type Controller struct {
	mu     sync.Mutex
	pipe   *pipeline.Pipeline
	sess   *Session
	postID string
	logger *slog.Logger
}

func NewController(pipe *pipeline.Pipeline, logger *slog.Logger) *Controller {
	return &Controller{pipe: pipe, sess: New(), logger: logger}
}

// SubmitTranscript runs stage 1 and, on success, stores the profile and
// advances the session. On failure the session stays put with the error
// surfaced for retry.
func (c *Controller) SubmitTranscript(ctx context.Context, transcript string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sess.ApplyTranscript(transcript); err != nil {
		return "", err
	}
	summary, err := c.pipe.AnalyzeTranscript(ctx, transcript)
	if err != nil {
		c.sess.Err = err.Error()
		return "", err
	}
	if err := c.sess.ApplySummary(summary); err != nil {
		return "", err
	}
	c.sess.Err = ""
	return summary, nil
}

// GeneratePost runs stage 2 against the stored profile.
func (c *Controller) GeneratePost(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Stage != StageAwaitingPost {
		return "", ErrWrongStage
	}
	correlationID := uuid.New().String()
	postID, post, err := c.pipe.GeneratePost(ctx, correlationID, c.sess.Summary)
	if err != nil {
		c.sess.Err = err.Error()
		return "", err
	}
	if err := c.sess.ApplyPost(post); err != nil {
		return "", err
	}
	c.postID = postID
	c.sess.Err = ""
	return post, nil
}

// RequestRevision runs stage 3 against the derived current post and appends
// the resulting revision entry. Failed attempts leave the history untouched.
func (c *Controller) RequestRevision(ctx context.Context, message string) (Revision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Stage != StageIterating {
		return Revision{}, ErrWrongStage
	}
	revised, err := c.pipe.IteratePost(ctx, c.postID, c.sess.CurrentPost(), message)
	if err != nil {
		c.sess.Err = err.Error()
		return Revision{}, err
	}
	rev := Revision{
		ID:          uuid.New(),
		UserMessage: message,
		RevisedPost: revised,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.sess.ApplyRevision(rev); err != nil {
		return Revision{}, err
	}
	c.sess.Err = ""
	return rev, nil
}

// Session returns a snapshot copy of the current session state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := *c.sess
	snap.Revisions = append([]Revision(nil), c.sess.Revisions...)
	return snap
}

// Reset clears the session back to awaiting-transcript.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sess.Reset()
	c.postID = ""
	c.logger.Info("session reset")
}
