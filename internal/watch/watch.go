// Package watch classifies images dropped into a directory.
//
// Every settled create or write event is submitted to the uploader, so a newer drop
// supersedes the classification of an older one.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	classifier "github.com/FrenchMajesty/waste-classifier"
	"github.com/FrenchMajesty/waste-classifier/internal/retry"
	"github.com/FrenchMajesty/waste-classifier/upload"
)

// DefaultDebounce is how long a file must stay quiet before it is submitted
const DefaultDebounce = 300 * time.Millisecond

// Submitter accepts files for classification. *upload.Uploader implements it.
type Submitter interface {
	Submit(ctx context.Context, f upload.File) (*classifier.Run, error)
	Remove()
}

// Handler receives each run the watcher started
type Handler func(f upload.File, run *classifier.Run)

// Config holds configuration for the Watcher
type Config struct {
	Dir       string
	Submitter Submitter
	Handler   Handler

	// Debounce is the quiet period per file. If 0, uses DefaultDebounce.
	Debounce time.Duration

	// Retry controls re-opening files that are still being written. If zero, uses retry.DefaultConfig.
	Retry retry.Config

	Logger *zap.Logger
}

// applyDefaults fills in default values for unset config fields
func (c *Config) applyDefaults() {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Retry == (retry.Config{}) {
		c.Retry = retry.DefaultConfig()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// Watcher watches a directory and submits new files
type Watcher struct {
	cfg     Config
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a Watcher for cfg.Dir
func New(cfg Config) (*Watcher, error) {
	if cfg.Submitter == nil {
		return nil, fmt.Errorf("submitter is required")
	}
	cfg.applyDefaults()

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch directory %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cfg.Dir)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		cfg:     cfg,
		watcher: w,
		logger:  cfg.Logger,
		pending: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.cfg.Dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", w.cfg.Dir, err)
	}
	w.logger.Info("watching directory", zap.String("dir", w.cfg.Dir))

	go w.run(ctx)
	return nil
}

// Stop ends the watch loop, cancels the running classification and releases the watcher
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("failed to close watcher", zap.Error(err))
	}
	w.cfg.Submitter.Remove()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(max(w.cfg.Debounce/3, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flush submits files that have been quiet for the debounce period, oldest first
func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()

	w.mu.Lock()
	type settled struct {
		path string
		at   time.Time
	}
	var ready []settled
	for path, at := range w.pending {
		if now.Sub(at) >= w.cfg.Debounce {
			ready = append(ready, settled{path, at})
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	sort.Slice(ready, func(i, j int) bool { return ready[i].at.Before(ready[j].at) })
	for _, s := range ready {
		w.submit(ctx, s.path)
	}
}

func (w *Watcher) submit(ctx context.Context, path string) {
	f, err := retry.Do(ctx, retry.Options{
		Config:    w.cfg.Retry,
		Operation: "open " + filepath.Base(path),
		ErrorChecker: func(err error) bool {
			// a file removed before it settled will not come back
			return !errors.Is(err, fs.ErrNotExist)
		},
		Logger: func(message string, args ...interface{}) {
			w.logger.Debug(fmt.Sprintf(message, args...))
		},
	}, func(int) (upload.File, error) {
		return upload.Open(path)
	})
	if err != nil {
		w.logger.Debug("skipping file", zap.String("path", path), zap.Error(err))
		return
	}

	run, err := w.cfg.Submitter.Submit(ctx, f)
	if err != nil {
		w.logger.Info("file not classified", zap.String("file", f.Name), zap.Error(err))
		return
	}

	if w.cfg.Handler != nil {
		w.cfg.Handler(f, run)
	}
}
