// Package pipeline implements the three-stage post generation flow: preference
// extraction from a transcript, post generation from the extracted profile,
// and feedback-driven revision of a generated post. Each stage is one prompt
// construction plus one gateway call, with a best-effort persistence write
// that never affects the caller's result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/virio-ai/quill/internal/events"
	"github.com/virio-ai/quill/internal/openai"
	"github.com/virio-ai/quill/internal/posts"
)

const (
	minTranscriptChars = 50
	maxTranscriptChars = 50000

	maxCompletionTokens = 2000

	// Stage 1 favors consistency; stages 2 and 3 trade some of it for voice.
	analyzeTemperature  = 0.3
	generateTemperature = 0.75
	iterateTemperature  = 0.7

	// Correlation ids with this prefix mark throwaway sessions; the post and
	// iteration sinks skip writes for them.
	demoIDPrefix = "demo-"

	// PlaceholderPostID is returned when the post was not persisted.
	PlaceholderPostID = "demo-post-id"

	sinkWriteTimeout = 10 * time.Second
)

// ErrInvalidInput marks caller-supplied data that fails a precondition.
// It is always detected before any network call.
var ErrInvalidInput = errors.New("invalid input")

// Sink records pipeline artifacts for offline analysis. All writes are
// best-effort; a failing sink must never change a stage's outcome.
type Sink interface {
	SaveTranscriptAnalysis(ctx context.Context, transcript, summary string) error
	SavePost(ctx context.Context, correlationID, post string) (string, error)
	SaveIteration(ctx context.Context, postID, userMessage, revisedPost string) error
}

// Pipeline drives the three stages against one gateway client. The sink and
// event publisher are optional; either may be nil.
type Pipeline struct {
	llm    *openai.Client
	sink   Sink
	events *events.Client
	logger *slog.Logger
}

func New(llm *openai.Client, sink Sink, ev *events.Client, logger *slog.Logger) *Pipeline {
	return &Pipeline{llm: llm, sink: sink, events: ev, logger: logger}
}

// AnalyzeTranscript runs stage 1: it renders the reference corpus and the
// transcript into one prompt and returns the extracted preference profile.
func (p *Pipeline) AnalyzeTranscript(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("%w: transcript is required", ErrInvalidInput)
	}
	if len(strings.TrimSpace(transcript)) < minTranscriptChars {
		return "", fmt.Errorf("%w: transcript is too short, provide a meaningful conversation transcript", ErrInvalidInput)
	}
	if len(transcript) > maxTranscriptChars {
		return "", fmt.Errorf("%w: transcript is too long, provide a transcript under %d characters", ErrInvalidInput, maxTranscriptChars)
	}

	p.logger.Info("analyzing transcript", "transcript_len", len(transcript))

	user := fmt.Sprintf(analyzeUserPrompt, posts.Context(), transcript)
	summary, err := p.llm.Complete(ctx, analyzeSystemPrompt, user, openai.Options{
		Temperature: analyzeTemperature,
		MaxTokens:   maxCompletionTokens,
	})
	if err != nil {
		return "", fmt.Errorf("analyze transcript: %w", err)
	}

	p.logger.Info("transcript analyzed", "summary_len", len(summary))

	p.saveAsync("transcript analysis", func(ctx context.Context) error {
		return p.sink.SaveTranscriptAnalysis(ctx, transcript, summary)
	})
	p.publish(events.SubjectTranscriptAnalyzed, events.StageEvent{
		Stage:       "analyze",
		InputChars:  len(transcript),
		ResultChars: len(summary),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})

	return summary, nil
}

// GeneratePost runs stage 2: it combines the fixed persona specification with
// the preference profile and returns the generated post. The returned post id
// is PlaceholderPostID unless the post was persisted under correlationID.
func (p *Pipeline) GeneratePost(ctx context.Context, correlationID, summary string) (string, string, error) {
	if strings.TrimSpace(summary) == "" {
		return "", "", fmt.Errorf("%w: preference summary is required", ErrInvalidInput)
	}

	p.logger.Info("generating post", "summary_len", len(summary))

	post, err := p.llm.Complete(ctx, generateSystemPrompt, fmt.Sprintf(generateUserPrompt, summary), openai.Options{
		Temperature: generateTemperature,
		MaxTokens:   maxCompletionTokens,
	})
	if err != nil {
		return "", "", fmt.Errorf("generate post: %w", err)
	}

	// Persist only for real correlation ids. Demo sessions skip the write and
	// get a placeholder id; a failed write degrades to the same placeholder.
	postID := PlaceholderPostID
	if p.sink != nil && correlationID != "" && !strings.HasPrefix(correlationID, demoIDPrefix) {
		id, err := p.sink.SavePost(ctx, correlationID, post)
		if err != nil {
			p.logger.Warn("post persistence failed", "correlation_id", correlationID, "error", err)
		} else {
			postID = id
		}
	}

	p.logger.Info("post generated", "post_len", len(post), "post_id", postID)

	p.publish(events.SubjectPostGenerated, events.StageEvent{
		Stage:       "generate",
		PostID:      postID,
		InputChars:  len(summary),
		ResultChars: len(post),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})

	return postID, post, nil
}

// IteratePost runs stage 3: a targeted revision of currentPost driven by
// userMessage. Every call is stateless; all conversational context arrives as
// the current post, so the stage is repeatable indefinitely.
func (p *Pipeline) IteratePost(ctx context.Context, postID, currentPost, userMessage string) (string, error) {
	if strings.TrimSpace(currentPost) == "" || strings.TrimSpace(userMessage) == "" {
		return "", fmt.Errorf("%w: current post and user message are required", ErrInvalidInput)
	}

	p.logger.Info("iterating post", "post_id", postID, "post_len", len(currentPost), "message_len", len(userMessage))

	revised, err := p.llm.Complete(ctx, iterateSystemPrompt, fmt.Sprintf(iterateUserPrompt, currentPost, userMessage), openai.Options{
		Temperature: iterateTemperature,
		MaxTokens:   maxCompletionTokens,
	})
	if err != nil {
		return "", fmt.Errorf("iterate post: %w", err)
	}

	if postID != "" && postID != PlaceholderPostID {
		p.saveAsync("iteration", func(ctx context.Context) error {
			return p.sink.SaveIteration(ctx, postID, userMessage, revised)
		})
	}

	p.logger.Info("post revised", "post_id", postID, "revised_len", len(revised))

	p.publish(events.SubjectPostIterated, events.StageEvent{
		Stage:       "iterate",
		PostID:      postID,
		InputChars:  len(currentPost),
		ResultChars: len(revised),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})

	return revised, nil
}

// saveAsync runs a sink write detached from the request: the caller's result
// is already decided, so failures are logged and discarded.
func (p *Pipeline) saveAsync(what string, write func(ctx context.Context) error) {
	if p.sink == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)
		defer cancel()
		if err := write(ctx); err != nil {
			p.logger.Warn("persistence failed", "what", what, "error", err)
		}
	}()
}

func (p *Pipeline) publish(subject string, evt events.StageEvent) {
	if p.events == nil {
		return
	}
	if err := p.events.Publish(subject, evt); err != nil {
		p.logger.Warn("event publish failed", "subject", subject, "error", err)
	}
}
