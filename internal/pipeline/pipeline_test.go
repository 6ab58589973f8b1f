package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/virio-ai/quill/internal/openai"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingSink captures writes so tests can assert on them.
type recordingSink struct {
	mu          sync.Mutex
	transcripts [][2]string
	posts       [][2]string
	iterations  [][3]string
}

func (s *recordingSink) SaveTranscriptAnalysis(_ context.Context, transcript, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts = append(s.transcripts, [2]string{transcript, summary})
	return nil
}

func (s *recordingSink) SavePost(_ context.Context, correlationID, post string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, [2]string{correlationID, post})
	return "stored-post-id", nil
}

func (s *recordingSink) SaveIteration(_ context.Context, postID, userMessage, revisedPost string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.iterations = append(s.iterations, [3]string{postID, userMessage, revisedPost})
	return nil
}

func (s *recordingSink) transcriptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transcripts)
}

func (s *recordingSink) iterationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.iterations)
}

// failingSink errors on every write.
type failingSink struct{}

func (failingSink) SaveTranscriptAnalysis(context.Context, string, string) error {
	return errors.New("sink down")
}

func (failingSink) SavePost(context.Context, string, string) (string, error) {
	return "", errors.New("sink down")
}

func (failingSink) SaveIteration(context.Context, string, string, string) error {
	return errors.New("sink down")
}

// fakeUpstream is an httptest chat-completions endpoint that records requests
// and answers with a fixed completion.
type fakeUpstream struct {
	server *httptest.Server
	calls  atomic.Int64
	mu     sync.Mutex
	last   struct {
		System string
		User   string
		Temp   float64
		Max    int
	}
}

func newFakeUpstream(t *testing.T, completion string) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		var req struct {
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.last.Temp = req.Temperature
		f.last.Max = req.MaxTokens
		for _, m := range req.Messages {
			switch m.Role {
			case "system":
				f.last.System = m.Content
			case "user":
				f.last.User = m.Content
			}
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": completion}},
			},
		})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestPipeline(t *testing.T, upstream *fakeUpstream, sink Sink) *Pipeline {
	t.Helper()
	llm := openai.NewClient("test-key", "gpt-4o")
	llm.SetTestTransport(upstream.server.URL)
	return New(llm, sink, nil, discardLogger())
}

func validTranscript(n int) string {
	base := "Customer: I liked the short punchy posts with real numbers. "
	for len(base) < n {
		base += "More feedback follows here. "
	}
	return base[:n]
}

func TestAnalyzeTranscript_Validation(t *testing.T) {
	upstream := newFakeUpstream(t, "profile")
	p := newTestPipeline(t, upstream, nil)
	ctx := context.Background()

	cases := []struct {
		name       string
		transcript string
		wantErr    bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \n\t  ", true},
		{"49 trimmed chars", validTranscript(49), true},
		{"padded below minimum", "  " + validTranscript(49) + "  ", true},
		{"exactly 50 trimmed chars", validTranscript(50), false},
		{"exactly 50000 raw chars", validTranscript(50000), false},
		{"50001 raw chars", validTranscript(50001), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := upstream.calls.Load()
			_, err := p.AnalyzeTranscript(ctx, tc.transcript)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				if upstream.calls.Load() != before {
					t.Error("invalid input must not reach the gateway")
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAnalyzeTranscript_PromptConstruction(t *testing.T) {
	upstream := newFakeUpstream(t, "PREFERENCE PROFILE\n\nSYNTHESIS:\nshort and data-driven")
	p := newTestPipeline(t, upstream, nil)

	transcript := validTranscript(120)
	summary, err := p.AnalyzeTranscript(context.Background(), transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary == "" {
		t.Fatal("expected non-empty summary")
	}

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	if upstream.last.Temp != analyzeTemperature {
		t.Errorf("expected temperature %v, got %v", analyzeTemperature, upstream.last.Temp)
	}
	if upstream.last.Max != maxCompletionTokens {
		t.Errorf("expected max tokens %d, got %d", maxCompletionTokens, upstream.last.Max)
	}
	if !strings.Contains(upstream.last.User, transcript) {
		t.Error("user prompt must embed the transcript")
	}
	if !strings.Contains(upstream.last.User, "POST 1:") || !strings.Contains(upstream.last.User, "POST 5:") {
		t.Error("user prompt must embed all five reference posts")
	}
	if !strings.Contains(upstream.last.System, `NEVER refer to "Post 1"`) {
		t.Error("system prompt must forbid ordinal references")
	}
	if !strings.Contains(upstream.last.System, "SYNTHESIS:") {
		t.Error("system prompt must require the synthesis section")
	}
}

func TestAnalyzeTranscript_PersistsAsync(t *testing.T) {
	upstream := newFakeUpstream(t, "profile text")
	sink := &recordingSink{}
	p := newTestPipeline(t, upstream, sink)

	transcript := validTranscript(120)
	if _, err := p.AnalyzeTranscript(context.Background(), transcript); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The write is fire-and-forget; give it a moment to land.
	deadline := time.Now().Add(2 * time.Second)
	for sink.transcriptCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sink.transcriptCount() != 1 {
		t.Fatal("expected transcript analysis to be persisted")
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.transcripts[0][0] != transcript || sink.transcripts[0][1] != "profile text" {
		t.Error("persisted pair does not match transcript and summary")
	}
}

func TestAnalyzeTranscript_SinkFailureDoesNotChangeResult(t *testing.T) {
	upstream := newFakeUpstream(t, "profile text")
	p := newTestPipeline(t, upstream, failingSink{})

	summary, err := p.AnalyzeTranscript(context.Background(), validTranscript(120))
	if err != nil {
		t.Fatalf("sink failure must not surface, got %v", err)
	}
	if summary != "profile text" {
		t.Errorf("sink failure must not change the summary, got %q", summary)
	}
}

func TestGeneratePost_RequiresSummary(t *testing.T) {
	upstream := newFakeUpstream(t, "post body")
	p := newTestPipeline(t, upstream, nil)

	_, _, err := p.GeneratePost(context.Background(), "corr-1", "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if upstream.calls.Load() != 0 {
		t.Error("invalid input must not reach the gateway")
	}
}

func TestGeneratePost_PersistGating(t *testing.T) {
	cases := []struct {
		name          string
		correlationID string
		sink          Sink
		wantPostID    string
		wantWrites    int
	}{
		{"real id with sink", "corr-abc", &recordingSink{}, "stored-post-id", 1},
		{"demo id skips write", "demo-session-1", &recordingSink{}, PlaceholderPostID, 0},
		{"empty id skips write", "", &recordingSink{}, PlaceholderPostID, 0},
		{"no sink", "corr-abc", nil, PlaceholderPostID, 0},
		{"failing sink degrades to placeholder", "corr-abc", failingSink{}, PlaceholderPostID, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			upstream := newFakeUpstream(t, "the generated post")
			p := newTestPipeline(t, upstream, tc.sink)

			postID, post, err := p.GeneratePost(context.Background(), tc.correlationID, "summary of preferences")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if post != "the generated post" {
				t.Errorf("unexpected post %q", post)
			}
			if postID != tc.wantPostID {
				t.Errorf("expected post id %q, got %q", tc.wantPostID, postID)
			}
			if rec, ok := tc.sink.(*recordingSink); ok {
				rec.mu.Lock()
				if len(rec.posts) != tc.wantWrites {
					t.Errorf("expected %d post writes, got %d", tc.wantWrites, len(rec.posts))
				}
				rec.mu.Unlock()
			}
		})
	}
}

func TestGeneratePost_PromptCarriesPersonaAndProfile(t *testing.T) {
	upstream := newFakeUpstream(t, "post body")
	p := newTestPipeline(t, upstream, nil)

	summary := "TONE PREFERENCES: casual first-person"
	if _, _, err := p.GeneratePost(context.Background(), "demo-1", summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	if upstream.last.Temp != generateTemperature {
		t.Errorf("expected temperature %v, got %v", generateTemperature, upstream.last.Temp)
	}
	if !strings.Contains(upstream.last.System, "IMMUTABLE CONTEXT") {
		t.Error("system prompt must carry the persona specification")
	}
	if !strings.Contains(upstream.last.System, "Vary the topic") {
		t.Error("system prompt must carry the variety directive")
	}
	if !strings.Contains(upstream.last.System, "300-500 words") {
		t.Error("system prompt must set the default length")
	}
	if !strings.Contains(upstream.last.User, summary) {
		t.Error("user prompt must embed the preference profile verbatim")
	}
}

func TestIteratePost_Validation(t *testing.T) {
	upstream := newFakeUpstream(t, "revised")
	p := newTestPipeline(t, upstream, nil)
	ctx := context.Background()

	if _, err := p.IteratePost(ctx, "", "", "make it shorter"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing post, got %v", err)
	}
	if _, err := p.IteratePost(ctx, "", "current post", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing message, got %v", err)
	}
	if upstream.calls.Load() != 0 {
		t.Error("invalid input must not reach the gateway")
	}
}

func TestIteratePost_Success(t *testing.T) {
	upstream := newFakeUpstream(t, "revised post body")
	sink := &recordingSink{}
	p := newTestPipeline(t, upstream, sink)

	revised, err := p.IteratePost(context.Background(), "post-123", "current post body", "make it shorter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revised != "revised post body" {
		t.Errorf("unexpected revision %q", revised)
	}

	upstream.mu.Lock()
	if !strings.Contains(upstream.last.User, "CURRENT POST:\ncurrent post body") {
		t.Error("user prompt must embed the current post")
	}
	if !strings.Contains(upstream.last.User, "USER FEEDBACK:\nmake it shorter") {
		t.Error("user prompt must embed the feedback")
	}
	if !strings.Contains(upstream.last.System, "TARGETED changes") {
		t.Error("system prompt must ask for targeted edits")
	}
	upstream.mu.Unlock()

	deadline := time.Now().Add(2 * time.Second)
	for sink.iterationCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if sink.iterationCount() != 1 {
		t.Fatal("expected iteration to be persisted")
	}
}

func TestIteratePost_PlaceholderIDSkipsWrite(t *testing.T) {
	upstream := newFakeUpstream(t, "revised")
	sink := &recordingSink{}
	p := newTestPipeline(t, upstream, sink)

	if _, err := p.IteratePost(context.Background(), PlaceholderPostID, "current", "shorter"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if sink.iterationCount() != 0 {
		t.Error("placeholder post id must skip the iteration write")
	}
}

func TestStages_GatewayFailuresPropagate(t *testing.T) {
	rateLimited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"type":"rate_limit_exceeded","message":"slow down"}}`)
	}))
	t.Cleanup(rateLimited.Close)

	llm := openai.NewClient("test-key", "gpt-4o")
	llm.SetTestTransport(rateLimited.URL)
	p := New(llm, nil, nil, discardLogger())
	ctx := context.Background()

	if _, err := p.AnalyzeTranscript(ctx, validTranscript(120)); !errors.Is(err, openai.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited from analyze, got %v", err)
	}
	if _, _, err := p.GeneratePost(ctx, "corr", "summary"); !errors.Is(err, openai.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited from generate, got %v", err)
	}
	if _, err := p.IteratePost(ctx, "", "post", "shorter"); !errors.Is(err, openai.ErrRateLimited) {
		t.Errorf("expected ErrRateLimited from iterate, got %v", err)
	}
}

func TestStages_UnconfiguredGateway(t *testing.T) {
	llm := openai.NewClient("", "gpt-4o")
	p := New(llm, nil, nil, discardLogger())
	ctx := context.Background()

	if _, err := p.AnalyzeTranscript(ctx, validTranscript(120)); !errors.Is(err, openai.ErrUnconfigured) {
		t.Errorf("expected ErrUnconfigured from analyze, got %v", err)
	}
	if _, _, err := p.GeneratePost(ctx, "corr", "summary"); !errors.Is(err, openai.ErrUnconfigured) {
		t.Errorf("expected ErrUnconfigured from generate, got %v", err)
	}
	if _, err := p.IteratePost(ctx, "", "post", "shorter"); !errors.Is(err, openai.ErrUnconfigured) {
		t.Errorf("expected ErrUnconfigured from iterate, got %v", err)
	}
}

func TestStages_EmptyCompletion(t *testing.T) {
	blank := newFakeUpstream(t, "   \n ")
	p := newTestPipeline(t, blank, nil)

	if _, err := p.AnalyzeTranscript(context.Background(), validTranscript(120)); !errors.Is(err, openai.ErrEmptyCompletion) {
		t.Errorf("expected ErrEmptyCompletion, got %v", err)
	}
}
