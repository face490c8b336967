// Package upload is the boundary between file acquisition and the classification
// simulator. It gates submissions on an authenticated session, validates the file
// type and size, and supersedes any classification still running.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	classifier "github.com/FrenchMajesty/waste-classifier"
)

// DefaultMaxBytes is the largest file accepted for classification (5 MiB)
const DefaultMaxBytes int64 = 5 * 1024 * 1024

var (
	// ErrUnauthenticated is returned when no user is signed in
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnsupportedType is returned for files that are not images
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrFileTooLarge is returned for files above the size limit
	ErrFileTooLarge = errors.New("file too large")
)

// File is a file offered for classification
type File struct {
	Name        string
	Size        int64
	ContentType string
}

// User is the signed-in account
type User struct {
	ID    string
	Email string
}

// SessionProvider reports the signed-in user. A nil user means nobody is signed in.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (*User, error)
}

// Classifier starts simulated classifications. *classifier.Simulator implements it.
type Classifier interface {
	Classify(ctx context.Context, fileName string, sizeBytes int64) (*classifier.Run, error)
	Reset()
}

// Config holds configuration for the Uploader
type Config struct {
	// Sessions gates uploads on a signed-in user. Required.
	Sessions SessionProvider

	// Classifier runs the classification. Required.
	Classifier Classifier

	// Notifier receives user-facing notifications. If nil, notifications are dropped.
	Notifier Notifier

	// MaxBytes is the size limit. If 0, uses DefaultMaxBytes.
	MaxBytes int64

	// Logger receives diagnostic logs. If nil, logging is disabled.
	Logger *zap.Logger
}

// applyDefaults fills in default values for unset config fields
func (c *Config) applyDefaults() {
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.Notifier == nil {
		c.Notifier = discardNotifier{}
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Uploader accepts files and hands valid ones to the classifier
type Uploader struct {
	sessions   SessionProvider
	classifier Classifier
	notifier   Notifier
	maxBytes   int64
	logger     *zap.Logger

	mu       sync.Mutex
	selected *File
	lastErr  error
}

// NewUploader creates a new Uploader with the given configuration
func NewUploader(cfg Config) (*Uploader, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session provider is required")
	}
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	cfg.applyDefaults()

	return &Uploader{
		sessions:   cfg.Sessions,
		classifier: cfg.Classifier,
		notifier:   cfg.Notifier,
		maxBytes:   cfg.MaxBytes,
		logger:     cfg.Logger,
	}, nil
}

// MaxBytes returns the configured size limit
func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// Validate checks the file type and size
func (u *Uploader) Validate(f File) error {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, f.ContentType)
	}
	if f.Size > u.maxBytes {
		return fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge, humanize.IBytes(uint64(f.Size)), humanize.IBytes(uint64(u.maxBytes)))
	}
	return nil
}

// Authorize returns the signed-in user or ErrUnauthenticated.
// A failing session lookup is reported as unauthenticated as well.
func (u *Uploader) Authorize(ctx context.Context) (*User, error) {
	user, err := u.sessions.CurrentUser(ctx)
	if err != nil {
		u.logger.Warn("session lookup failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Submit authorizes, validates and classifies the file.
// Rejected files never reach the classifier; the previous selection is kept.
func (u *Uploader) Submit(ctx context.Context, f File) (*classifier.Run, error) {
	user, err := u.Authorize(ctx)
	if err != nil {
		u.notifier.Notify(authRequired())
		return nil, err
	}

	if err := u.Validate(f); err != nil {
		u.setError(err)
		u.notifier.Notify(u.rejected(err))
		u.logger.Info("upload rejected",
			zap.String("file", f.Name),
			zap.String("content_type", f.ContentType),
			zap.Int64("size_bytes", f.Size),
			zap.Error(err))
		return nil, err
	}

	run, err := u.classifier.Classify(ctx, f.Name, f.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to start classification: %w", err)
	}

	u.mu.Lock()
	selected := f
	u.selected = &selected
	u.lastErr = nil
	u.mu.Unlock()

	u.notifier.Notify(uploaded())
	u.logger.Debug("upload accepted",
		zap.String("user", user.ID),
		zap.String("file", f.Name),
		zap.String("run_id", run.ID()))

	return run, nil
}

// Remove clears the selected file and cancels its classification
func (u *Uploader) Remove() {
	u.mu.Lock()
	u.selected = nil
	u.lastErr = nil
	u.mu.Unlock()

	u.classifier.Reset()
}

// Selected returns the file currently shown as preview, or nil
func (u *Uploader) Selected() *File {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.selected == nil {
		return nil
	}
	f := *u.selected
	return &f
}

// LastError returns the most recent validation failure still on display
func (u *Uploader) LastError() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastErr
}

func (u *Uploader) setError(err error) {
	u.mu.Lock()
	u.lastErr = err
	u.mu.Unlock()
}

func (u *Uploader) rejected(err error) Notification {
	return Notification{
		Title:       "Upload rejected",
		Description: Message(err, u.maxBytes),
		Variant:     VariantDestructive,
	}
}

// Message returns the user-facing text for an upload error
func Message(err error, maxBytes int64) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "Please sign in to upload and classify images"
	case errors.Is(err, ErrUnsupportedType):
		return "Please upload an image file (JPEG, PNG, etc.)"
	case errors.Is(err, ErrFileTooLarge):
		return fmt.Sprintf("File size exceeds the %s limit", humanize.IBytes(uint64(maxBytes)))
	default:
		return err.Error()
	}
}
