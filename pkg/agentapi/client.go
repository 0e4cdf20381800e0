package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"researchmate/pkg/config"
	"researchmate/pkg/logging"
	"researchmate/pkg/version"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 120 * time.Second

	// HeaderRequestID correlates client and backend logs.
	HeaderRequestID = "X-Request-ID"

	opPing = "ping"

	maxErrorBodyBytes = 4 << 10
	previewLen        = 200
)

// Client talks to the ResearchMate backend.
type Client struct {
	QueryURL   string
	UploadURL  string
	PingURL    string
	HTTPClient *http.Client
	UserAgent  string

	// Limiter throttles outgoing requests; nil disables throttling.
	Limiter *rate.Limiter
}

// NewClient creates a client for the backend described by cfg.
func NewClient(cfg config.Config) *Client {
	c := &Client{
		QueryURL:  cfg.Endpoint("query"),
		UploadURL: cfg.Endpoint("upload"),
		PingURL:   strings.TrimRight(cfg.APIURL, "/") + "/",
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		UserAgent: version.UserAgent(),
	}
	if cfg.APITimeoutSeconds > 0 {
		c.SetTimeout(time.Duration(cfg.APITimeoutSeconds) * time.Second)
	}
	if cfg.RequestsPerMinute > 0 {
		c.Limiter = NewLimiter(cfg.RequestsPerMinute)
	}
	return c
}

// NewLimiter allows perMinute requests per minute with a burst of a few
// requests so quick follow-up questions are not delayed.
func NewLimiter(perMinute int) *rate.Limiter {
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

// SetTimeout configures the HTTP client timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Query sends one user question to the agent endpoint.
func (c *Client) Query(ctx context.Context, text string) (QueryResponse, error) {
	const op = "query"

	body, err := json.Marshal(QueryRequest{Query: text})
	if err != nil {
		return QueryResponse{}, fmt.Errorf("failed to marshal query: %w", err)
	}

	reqID := uuid.NewString()
	logger := slog.Default().With("op", op, "request_id", reqID)
	logger.Debug("agentapi_request", "url", c.QueryURL, "query_len", len(text))
	if logger.Enabled(ctx, logging.LevelTrace) {
		logger.Log(ctx, logging.LevelTrace, "agentapi_request_body", "json", string(body))
	}

	data, err := c.do(ctx, op, reqID, http.MethodPost, c.QueryURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return QueryResponse{}, err
	}
	if logger.Enabled(ctx, logging.LevelTrace) {
		logger.Log(ctx, logging.LevelTrace, "agentapi_response_body", "json", string(data))
	}

	var payload queryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return QueryResponse{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}

	var content *string
	switch {
	case payload.Response != nil:
		content = payload.Response
	case payload.Answer != nil:
		content = payload.Answer
	default:
		return QueryResponse{}, fmt.Errorf("%s: %w: missing response field", op, ErrMalformedResponse)
	}

	resp := QueryResponse{
		Response: *content,
		Agent:    payload.Agent,
		Status:   payload.Status,
	}
	logger.Info("agentapi_query_done",
		"agent", resp.Agent,
		"status", resp.Status,
		"response_len", len(resp.Response),
		"response_preview", preview(resp.Response))
	return resp, nil
}

// Upload streams one file to the upload endpoint as multipart field "file".
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	const op = "upload"

	reqID := uuid.NewString()
	logger := slog.Default().With("op", op, "request_id", reqID)
	logger.Debug("agentapi_request", "url", c.UploadURL, "filename", filename)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	data, err := c.do(ctx, op, reqID, http.MethodPost, c.UploadURL, mw.FormDataContentType(), pr)
	// Unblocks the writer goroutine if the request ended before the body was consumed.
	pr.Close()
	if err != nil {
		return UploadResult{}, err
	}

	var payload uploadPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return UploadResult{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	if payload.Filename == nil || payload.TextLength == nil {
		return UploadResult{}, fmt.Errorf("%s: %w: missing filename or text_length", op, ErrMalformedResponse)
	}

	result := UploadResult{
		Filename:   *payload.Filename,
		TextLength: *payload.TextLength,
		FilePath:   payload.FilePath,
		Preview:    payload.Preview,
		Status:     payload.Status,
		Warning:    payload.Warning,
	}
	logger.Info("agentapi_upload_done",
		"filename", result.Filename,
		"text_length", result.TextLength,
		"status", result.Status)
	return result, nil
}

// Ping calls the backend root endpoint.
func (c *Client) Ping(ctx context.Context) (PingResponse, error) {
	const op = opPing

	data, err := c.do(ctx, op, uuid.NewString(), http.MethodGet, c.PingURL, "", nil)
	if err != nil {
		return PingResponse{}, err
	}

	var resp PingResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return PingResponse{}, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, op, reqID, method, url, contentType string, body io.Reader) ([]byte, error) {
	// Health checks never reach an agent, so they do not spend quota.
	if c.Limiter != nil && op != opPing {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Op: op, URL: url, RequestID: reqID, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set(HeaderRequestID, reqID)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: url, RequestID: reqID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		detail := errorDetail(raw)
		slog.Error("agentapi_status_error",
			"op", op,
			"request_id", reqID,
			"status_code", resp.StatusCode,
			"response_preview", preview(detail))
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Detail: detail, RequestID: reqID}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, URL: url, RequestID: reqID, Err: fmt.Errorf("read body: %w", err)}
	}

	slog.Debug("agentapi_response",
		"op", op,
		"request_id", reqID,
		"status_code", resp.StatusCode,
		"response_size", len(data),
		"elapsed_ms", time.Since(start).Milliseconds())
	return data, nil
}

// errorDetail extracts FastAPI's "detail" or falls back to the raw body.
func errorDetail(raw []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(raw))
}

// preview caps s at previewLen bytes without splitting a rune.
func preview(s string) string {
	if len(s) <= previewLen {
		return s
	}
	cut := previewLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
