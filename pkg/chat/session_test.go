package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"researchmate/pkg/agentapi"
	"researchmate/pkg/config"
)

type fakeQuerier struct {
	mu    sync.Mutex
	calls []string
	resp  agentapi.QueryResponse
	err   error
	// block, when set, is waited on before answering.
	block chan struct{}
}

func (f *fakeQuerier) Query(ctx context.Context, text string) (agentapi.QueryResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.resp, f.err
}

func (f *fakeQuerier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSession_SubmitSuccess(t *testing.T) {
	q := &fakeQuerier{resp: agentapi.QueryResponse{Response: "## Summary\n...", Agent: "Summarizer"}}
	s := NewSession(q, WithLogger(quietLogger()))

	if err := s.Submit(context.Background(), "Summarize section 2"); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Content != "Summarize section 2" {
		t.Errorf("Unexpected user turn %+v", messages[0])
	}
	if messages[0].Agent != "" {
		t.Errorf("User turn should carry no agent, got %q", messages[0].Agent)
	}
	if messages[1].Role != RoleAssistant {
		t.Errorf("Expected assistant role, got %q", messages[1].Role)
	}
	if messages[1].Content != "## Summary\n..." {
		t.Errorf("Expected verbatim markdown, got %q", messages[1].Content)
	}
	if messages[1].Agent != "Summarizer" {
		t.Errorf("Expected agent Summarizer, got %q", messages[1].Agent)
	}
	if s.Awaiting() {
		t.Error("Expected awaiting to be false after completion")
	}
}

func TestSession_SubmitFailureAppendsFallback(t *testing.T) {
	q := &fakeQuerier{err: errors.New("connection refused")}
	s := NewSession(q, WithLogger(quietLogger()))

	if err := s.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("Submit() should absorb backend errors, got %v", err)
	}

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[1].Content != FallbackReply {
		t.Errorf("Expected fallback reply, got %q", messages[1].Content)
	}
	if messages[1].Agent != "" {
		t.Errorf("Fallback reply must not carry an agent, got %q", messages[1].Agent)
	}
	if !messages[1].Failed {
		t.Error("Expected fallback reply marked as failed")
	}
	if s.Awaiting() {
		t.Error("Expected awaiting to be false after failure")
	}
	if q.callCount() != 1 {
		t.Errorf("Expected exactly one call (no retry), got %d", q.callCount())
	}
}

func TestSession_ReplyMatchingFallbackIsNotFailed(t *testing.T) {
	q := &fakeQuerier{resp: agentapi.QueryResponse{Response: FallbackReply}}
	s := NewSession(q, WithLogger(quietLogger()))

	reply := s.Complete(context.Background(), mustBegin(t, s, "hello"))
	if reply.Failed {
		t.Error("Expected a delivered reply not marked as failed, even with fallback text")
	}
	if reply.Content != FallbackReply || reply.Agent != "" {
		t.Errorf("Unexpected reply %+v", reply)
	}
}

func mustBegin(t *testing.T, s *Session, text string) Pending {
	t.Helper()
	p, err := s.Begin(text)
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	return p
}

func TestSession_EmptyInputIsNoop(t *testing.T) {
	tests := []string{"", " ", "\t\n", "   \n  "}
	for _, text := range tests {
		q := &fakeQuerier{}
		s := NewSession(q, WithLogger(quietLogger()))

		err := s.Submit(context.Background(), text)
		if !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Submit(%q) error = %v, want ErrEmptyMessage", text, err)
		}
		if s.Len() != 0 {
			t.Errorf("Submit(%q) changed transcript to %d entries", text, s.Len())
		}
		if q.callCount() != 0 {
			t.Errorf("Submit(%q) made %d network calls", text, q.callCount())
		}
		if s.Awaiting() {
			t.Errorf("Submit(%q) left awaiting set", text)
		}
	}
}

func TestSession_TwoEntriesPerSubmit(t *testing.T) {
	q := &fakeQuerier{resp: agentapi.QueryResponse{Response: "ok", Agent: "A"}}
	s := NewSession(q, WithLogger(quietLogger()))

	inputs := []string{"one", "two", "three"}
	for i, text := range inputs {
		if i == 1 {
			q.err = errors.New("boom")
		} else {
			q.err = nil
		}
		if err := s.Submit(context.Background(), text); err != nil {
			t.Fatalf("Submit(%q): %v", text, err)
		}
	}

	messages := s.Messages()
	if len(messages) != 2*len(inputs) {
		t.Fatalf("Expected %d messages, got %d", 2*len(inputs), len(messages))
	}
	for i, text := range inputs {
		user, reply := messages[2*i], messages[2*i+1]
		if user.Role != RoleUser || user.Content != text {
			t.Errorf("turn %d: unexpected user message %+v", i, user)
		}
		if reply.Role != RoleAssistant {
			t.Errorf("turn %d: expected assistant reply, got %+v", i, reply)
		}
	}
	if messages[3].Content != FallbackReply {
		t.Errorf("Expected fallback on the failed turn, got %q", messages[3].Content)
	}
}

func TestSession_BeginIsOptimistic(t *testing.T) {
	q := &fakeQuerier{resp: agentapi.QueryResponse{Response: "done", Agent: "A"}}
	s := NewSession(q, WithLogger(quietLogger()))

	p, err := s.Begin("question")
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if p.Text() != "question" {
		t.Errorf("Pending text = %q", p.Text())
	}
	if s.Len() != 1 {
		t.Fatalf("Expected user turn before network completion, got %d entries", s.Len())
	}
	if !s.Awaiting() {
		t.Error("Expected awaiting after Begin")
	}
	if q.callCount() != 0 {
		t.Error("Begin must not call the backend")
	}

	reply := s.Complete(context.Background(), p)
	if reply.Content != "done" {
		t.Errorf("Complete() returned %+v", reply)
	}
	if s.Awaiting() {
		t.Error("Expected idle after Complete")
	}
}

func TestSession_SingleFlight(t *testing.T) {
	block := make(chan struct{})
	q := &fakeQuerier{resp: agentapi.QueryResponse{Response: "first", Agent: "A"}, block: block}
	s := NewSession(q, WithLogger(quietLogger()))

	p, err := s.Begin("first")
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Complete(context.Background(), p)
		close(done)
	}()

	if err := s.Submit(context.Background(), "second"); !errors.Is(err, ErrAwaitingResponse) {
		t.Errorf("Expected ErrAwaitingResponse for overlapping submit, got %v", err)
	}
	if err := s.Reset(); !errors.Is(err, ErrAwaitingResponse) {
		t.Errorf("Expected Reset to be refused while awaiting, got %v", err)
	}

	close(block)
	<-done

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[1].Content != "first" {
		t.Errorf("Unexpected reply %q", messages[1].Content)
	}
}

func TestSession_CompleteRejectsStalePending(t *testing.T) {
	q := &fakeQuerier{resp: agentapi.QueryResponse{Response: "ok", Agent: "A"}}
	s := NewSession(q, WithLogger(quietLogger()))

	p, _ := s.Begin("hello")
	s.Complete(context.Background(), p)

	// Completing the same token again must not append a second reply.
	s.Complete(context.Background(), p)
	s.Complete(context.Background(), Pending{})

	if s.Len() != 2 {
		t.Errorf("Expected 2 messages, got %d", s.Len())
	}
	if q.callCount() != 1 {
		t.Errorf("Expected 1 backend call, got %d", q.callCount())
	}
}

func TestSession_OnAppendFiresPerMessage(t *testing.T) {
	var appended []Message
	q := &fakeQuerier{resp: agentapi.QueryResponse{Response: "hi", Agent: "A"}}
	s := NewSession(q,
		WithLogger(quietLogger()),
		WithOnAppend(func(m Message) { appended = append(appended, m) }),
	)

	s.Submit(context.Background(), "hello")

	if len(appended) != 2 {
		t.Fatalf("Expected hook to fire twice, got %d", len(appended))
	}
	if appended[0].Role != RoleUser || appended[1].Role != RoleAssistant {
		t.Errorf("Unexpected hook order %+v", appended)
	}
}

func TestSession_ResetAndLastReply(t *testing.T) {
	q := &fakeQuerier{resp: agentapi.QueryResponse{Response: "answer", Agent: "A"}}
	s := NewSession(q, WithLogger(quietLogger()))

	if _, ok := s.LastReply(); ok {
		t.Error("Expected no reply in empty session")
	}

	s.Submit(context.Background(), "question")
	last, ok := s.LastReply()
	if !ok || last.Content != "answer" {
		t.Errorf("LastReply() = %+v, %v", last, ok)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty transcript after Reset, got %d", s.Len())
	}
}

func TestSession_MessagesReturnsCopy(t *testing.T) {
	q := &fakeQuerier{resp: agentapi.QueryResponse{Response: "r", Agent: "A"}}
	s := NewSession(q, WithLogger(quietLogger()))
	s.Submit(context.Background(), "q")

	messages := s.Messages()
	messages[0].Content = "mutated"

	if s.Messages()[0].Content != "q" {
		t.Error("Messages() must not expose internal storage")
	}
}

func TestSession_UnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	cfg := config.Default()
	cfg.APIURL = url
	cfg.RequestsPerMinute = 0
	s := NewSession(agentapi.NewClient(cfg), WithLogger(quietLogger()))

	if err := s.Submit(context.Background(), "Summarize section 2"); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Content != "Summarize section 2" {
		t.Errorf("Unexpected user turn %q", messages[0].Content)
	}
	if messages[1].Content != FallbackReply || messages[1].Agent != "" {
		t.Errorf("Expected fallback reply, got %+v", messages[1])
	}
	if s.Awaiting() {
		t.Error("Expected awaiting false")
	}
}

func TestSession_BackendScenario(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"response": "## Summary\n...", "agent": "Summarizer"}`)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.APIURL = server.URL
	cfg.RequestsPerMinute = 0
	s := NewSession(agentapi.NewClient(cfg), WithLogger(quietLogger()))

	s.Submit(context.Background(), "Summarize section 2")

	messages := s.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[1].Agent != "Summarizer" || messages[1].Content != "## Summary\n..." {
		t.Errorf("Unexpected assistant turn %+v", messages[1])
	}
}
