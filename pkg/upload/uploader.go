package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"researchmate/pkg/agentapi"
)

// Status is the upload widget state.
type Status int

const (
	StatusIdle Status = iota
	StatusUploading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUploading:
		return "uploading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

var (
	// ErrNoFile is returned when no file was selected.
	ErrNoFile = errors.New("no file selected")
	// ErrUploadInProgress is returned while a previous upload runs.
	ErrUploadInProgress = errors.New("an upload is already in progress")
)

// Sender transmits one file to the backend.
type Sender interface {
	Upload(ctx context.Context, filename string, r io.Reader) (agentapi.UploadResult, error)
}

// Pending identifies a started upload.
type Pending struct {
	seq  uint64
	path string
}

// Path returns the selected file path.
func (p Pending) Path() string { return p.path }

// Name returns the file name sent to the backend.
func (p Pending) Name() string { return filepath.Base(p.path) }

// Option configures an Uploader.
type Option func(*Uploader)

// WithAccept sets the advisory extension hint, e.g. ".pdf".
func WithAccept(ext string) Option {
	return func(u *Uploader) { u.accept = strings.ToLower(strings.TrimSpace(ext)) }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(u *Uploader) { u.logger = l }
}

// WithOpener replaces os.Open, mainly for tests.
func WithOpener(open func(path string) (io.ReadCloser, error)) Option {
	return func(u *Uploader) { u.open = open }
}

// Uploader sends one selected file at a time and reports the outcome.
type Uploader struct {
	sender     Sender
	onComplete func(agentapi.UploadResult)
	accept     string
	logger     *slog.Logger
	open       func(path string) (io.ReadCloser, error)

	mu      sync.Mutex
	status  Status
	lastErr error
	seq     uint64
}

// NewUploader creates an idle uploader. onComplete, when non-nil, receives
// the backend payload once per successful upload.
func NewUploader(s Sender, onComplete func(agentapi.UploadResult), opts ...Option) *Uploader {
	u := &Uploader{
		sender:     s,
		onComplete: onComplete,
		logger:     slog.Default(),
		open: func(path string) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// SelectFile uploads the file at path. Upload failures are absorbed into
// StatusError; only selection rejections are returned.
func (u *Uploader) SelectFile(ctx context.Context, path string) error {
	p, err := u.Begin(path)
	if err != nil {
		return err
	}
	u.Complete(ctx, p)
	return nil
}

// Begin moves the uploader to StatusUploading. The extension hint is only
// logged; the content is never inspected.
func (u *Uploader) Begin(path string) (Pending, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Pending{}, ErrNoFile
	}

	u.mu.Lock()
	if u.status == StatusUploading {
		u.mu.Unlock()
		return Pending{}, ErrUploadInProgress
	}
	u.seq++
	p := Pending{seq: u.seq, path: path}
	u.status = StatusUploading
	u.lastErr = nil
	u.mu.Unlock()

	if u.accept != "" && !strings.EqualFold(filepath.Ext(path), u.accept) {
		u.logger.Warn("upload_unexpected_extension", "path", path, "accept", u.accept)
	}
	u.logger.Info("upload_start", "path", path)
	return p, nil
}

// Complete transmits the file for p and sets the terminal status.
func (u *Uploader) Complete(ctx context.Context, p Pending) Status {
	u.mu.Lock()
	valid := u.status == StatusUploading && p.seq == u.seq && p.seq != 0
	u.mu.Unlock()
	if !valid {
		u.logger.Warn("upload_complete_unknown_pending", "seq", p.seq)
		return u.Status()
	}

	start := time.Now()
	result, err := u.send(ctx, p)
	if err != nil {
		u.logger.Error("upload_failed",
			"path", p.path,
			"error", err,
			"kind", agentapi.Kind(err),
			"elapsed_ms", time.Since(start).Milliseconds())
		u.finish(StatusError, err)
		return StatusError
	}

	u.logger.Info("upload_done",
		"filename", result.Filename,
		"text_length", result.TextLength,
		"index_status", result.Status,
		"elapsed_ms", time.Since(start).Milliseconds())
	u.finish(StatusSuccess, nil)
	if u.onComplete != nil {
		u.onComplete(result)
	}
	return StatusSuccess
}

func (u *Uploader) send(ctx context.Context, p Pending) (agentapi.UploadResult, error) {
	f, err := u.open(p.path)
	if err != nil {
		return agentapi.UploadResult{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return u.sender.Upload(ctx, p.Name(), f)
}

func (u *Uploader) finish(status Status, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	u.lastErr = err
}

// Status returns the current state.
func (u *Uploader) Status() Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

// LastError returns the error behind StatusError, for diagnostics.
func (u *Uploader) LastError() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastErr
}

// Accept returns the advisory extension hint.
func (u *Uploader) Accept() string {
	return u.accept
}

// Reset returns to StatusIdle; refused while uploading.
func (u *Uploader) Reset() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.status == StatusUploading {
		return ErrUploadInProgress
	}
	u.status = StatusIdle
	u.lastErr = nil
	return nil
}
