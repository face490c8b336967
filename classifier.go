package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Simulator produces deterministic waste classifications with simulated latency.
//
// At most one run is active per simulator: starting a new classification supersedes
// the running one, and Reset or Close cancel it.
type Simulator struct {
	cfg     Config
	catalog *Catalog
	logger  *zap.Logger

	mu      sync.Mutex
	current *Run
	closed  bool

	shutdownOnce sync.Once

	// Metrics tracking
	metrics     Metrics
	metricsLock sync.RWMutex
}

// NewSimulator creates a new Simulator with the given configuration
func NewSimulator(cfg Config) (*Simulator, error) {
	cfg.applyDefaults()

	if cfg.Catalog.Len() == 0 {
		return nil, fmt.Errorf("%w: no waste types", ErrInvalidCatalog)
	}

	for i, wt := range cfg.Catalog.types {
		if wt.MaxConfidence() > 100 {
			cfg.Logger.Warn("waste type can report confidence above 100",
				zap.Int("index", i),
				zap.String("type", wt.Type),
				zap.Int("max_confidence", wt.MaxConfidence()))
		}
	}

	return &Simulator{
		cfg:     cfg,
		catalog: cfg.Catalog,
		logger:  cfg.Logger,
	}, nil
}

// Catalog returns the waste type table the simulator selects from
func (s *Simulator) Catalog() *Catalog {
	return s.catalog
}

// Classify starts a simulated classification of the given file.
// Any run still in progress is canceled first and will never deliver its result.
func (s *Simulator) Classify(ctx context.Context, fileName string, sizeBytes int64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	if prev := s.current; prev != nil {
		prev.stopWith(ErrSuperseded)
	}

	result := s.catalog.Evaluate(fileName, sizeBytes)
	run := newRun(uuid.New().String(), fileName, sizeBytes, result, s.cfg, s.runFinished)
	s.current = run
	s.recordStart()

	s.logger.Debug("classification started",
		zap.String("run_id", run.id),
		zap.String("file", fileName),
		zap.Int64("size_bytes", sizeBytes),
		zap.Uint32("seed", result.Seed))

	run.start(ctx)
	return run, nil
}

// Current returns the most recently started run, or nil after Reset
func (s *Simulator) Current() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reset cancels the current run, if any, and forgets it
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.stopWith(ErrCanceled)
		s.current = nil
	}
}

// Close cancels any pending run and rejects further classifications.
// It's safe to call Close multiple times.
func (s *Simulator) Close() error {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.closed = true
		if s.current != nil {
			s.current.stopWith(ErrCanceled)
			s.current = nil
		}
	})
	return nil
}

// GetMetrics returns current run metrics
func (s *Simulator) GetMetrics() Metrics {
	s.metricsLock.RLock()
	defer s.metricsLock.RUnlock()
	return s.metrics
}

// runFinished is called from the run goroutine; it must not take s.mu
func (s *Simulator) runFinished(r *Run) {
	state, err := r.State(), r.Err()

	s.metricsLock.Lock()
	switch {
	case state == StateCompleted:
		s.metrics.Completed++
	case errors.Is(err, ErrSuperseded):
		s.metrics.Superseded++
	default:
		s.metrics.Canceled++
	}
	s.metricsLock.Unlock()

	if state == StateCompleted {
		s.logger.Info("classification completed",
			zap.String("run_id", r.id),
			zap.String("file", r.fileName),
			zap.String("type", r.result.Type),
			zap.Float64("confidence", r.result.Confidence))
		return
	}

	s.logger.Debug("classification canceled",
		zap.String("run_id", r.id),
		zap.String("file", r.fileName),
		zap.Error(err))
}

func (s *Simulator) recordStart() {
	s.metricsLock.Lock()
	defer s.metricsLock.Unlock()
	s.metrics.Started++
}
