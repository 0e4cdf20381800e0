// Package chat holds the conversation with the ResearchMate agent backend:
// an append-only transcript plus a single in-flight request.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"researchmate/pkg/agentapi"
)

// FallbackReply replaces the assistant turn whenever the backend call fails.
const FallbackReply = "Sorry, I encountered an error processing your request."

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrEmptyMessage is returned for empty or whitespace-only input.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrAwaitingResponse is returned while a previous message is in flight.
	ErrAwaitingResponse = errors.New("still awaiting a response")
	// ErrUnknownPending is returned when Complete gets a token it did not issue.
	ErrUnknownPending = errors.New("pending message does not belong to this session")
)

// Message is one transcript entry. Agent is set only on successful
// assistant replies; Failed marks the fallback that replaced a failed call.
type Message struct {
	Role    string
	Content string
	Agent   string
	Failed  bool
	Time    time.Time
}

// Querier sends a user question to the backend.
type Querier interface {
	Query(ctx context.Context, text string) (agentapi.QueryResponse, error)
}

// Pending identifies a submitted message whose reply has not arrived.
type Pending struct {
	seq  uint64
	text string
}

// Text returns the submitted text.
func (p Pending) Text() string { return p.text }

// Option configures a Session.
type Option func(*Session)

// WithOnAppend registers a hook called after every transcript append,
// outside the session lock.
func WithOnAppend(fn func(Message)) Option {
	return func(s *Session) { s.onAppend = fn }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is safe for use from the UI loop and command goroutines.
type Session struct {
	querier  Querier
	onAppend func(Message)
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	messages []Message
	awaiting bool
	seq      uint64
}

// NewSession creates an empty conversation backed by q.
func NewSession(q Querier, opts ...Option) *Session {
	s := &Session{
		querier: q,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit sends text and appends the reply. Backend failures are absorbed
// into a fallback reply; only input rejections are returned.
func (s *Session) Submit(ctx context.Context, text string) error {
	p, err := s.Begin(text)
	if err != nil {
		return err
	}
	s.Complete(ctx, p)
	return nil
}

// Begin appends the user message and marks the session as awaiting.
// The text is stored verbatim; trimming only decides emptiness.
func (s *Session) Begin(text string) (Pending, error) {
	if strings.TrimSpace(text) == "" {
		return Pending{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return Pending{}, ErrAwaitingResponse
	}
	s.seq++
	p := Pending{seq: s.seq, text: text}
	msg := Message{Role: RoleUser, Content: text, Time: s.now()}
	s.messages = append(s.messages, msg)
	s.awaiting = true
	s.mu.Unlock()

	s.notify(msg)
	return p, nil
}

// Complete performs the backend call for p and appends exactly one
// assistant message. It always clears the awaiting flag.
func (s *Session) Complete(ctx context.Context, p Pending) Message {
	s.mu.Lock()
	valid := s.awaiting && p.seq == s.seq && p.seq != 0
	s.mu.Unlock()
	if !valid {
		s.logger.Warn("chat_complete_unknown_pending", "seq", p.seq, "error", ErrUnknownPending)
		return Message{}
	}

	start := time.Now()
	resp, err := s.querier.Query(ctx, p.text)

	var reply Message
	if err != nil {
		s.logger.Error("chat_query_failed",
			"error", err,
			"kind", agentapi.Kind(err),
			"elapsed_ms", time.Since(start).Milliseconds())
		reply = Message{Role: RoleAssistant, Content: FallbackReply, Failed: true}
	} else {
		s.logger.Info("chat_query_done",
			"agent", resp.Agent,
			"response_len", len(resp.Response),
			"elapsed_ms", time.Since(start).Milliseconds())
		reply = Message{Role: RoleAssistant, Content: resp.Response, Agent: resp.Agent}
	}

	s.mu.Lock()
	reply.Time = s.now()
	s.messages = append(s.messages, reply)
	s.awaiting = false
	s.mu.Unlock()

	s.notify(reply)
	return reply
}

// Awaiting reports whether a reply is outstanding.
func (s *Session) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of transcript entries.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// LastReply returns the most recent assistant message.
func (s *Session) LastReply() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == RoleAssistant {
			return s.messages[i], true
		}
	}
	return Message{}, false
}

// Reset clears the transcript. It is refused while a reply is outstanding
// so a late reply cannot land in a fresh conversation.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.awaiting {
		return ErrAwaitingResponse
	}
	s.messages = nil
	s.logger.Info("chat_reset")
	return nil
}

func (s *Session) notify(msg Message) {
	if s.onAppend != nil {
		s.onAppend(msg)
	}
}
