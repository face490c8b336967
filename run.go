package classifier

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Run is a single simulated classification.
//
// A run emits an initial progress event, one event per tick while progress rises,
// and a final event carrying the result once its duration has elapsed. The event
// channel is closed when the run completes or is canceled; a canceled run never
// delivers a result.
type Run struct {
	id        string
	fileName  string
	sizeBytes int64
	result    Result

	tick     time.Duration
	step     int
	duration time.Duration

	events   chan Event
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	reason   error

	mu       sync.RWMutex
	state    State
	progress int
	err      error

	onFinish func(*Run)
}

func newRun(id, fileName string, sizeBytes int64, result Result, cfg Config, onFinish func(*Run)) *Run {
	// initial event, one per distinct increment, and the terminal event
	capacity := (100+cfg.ProgressStep-1)/cfg.ProgressStep + 2

	return &Run{
		id:        id,
		fileName:  fileName,
		sizeBytes: sizeBytes,
		result:    result,
		tick:      cfg.TickInterval,
		step:      cfg.ProgressStep,
		duration:  cfg.Duration,
		events:    make(chan Event, capacity),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		state:     StateIdle,
		onFinish:  onFinish,
	}
}

func (r *Run) start(ctx context.Context) {
	r.mu.Lock()
	r.state = StateRunning
	r.mu.Unlock()

	go r.loop(ctx)
}

func (r *Run) loop(ctx context.Context) {
	defer close(r.done)
	defer close(r.events)

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	timer := time.NewTimer(r.duration)
	defer timer.Stop()

	r.events <- Event{RunID: r.id, Progress: 0}

	for {
		select {
		case <-r.stop:
			r.cancelWith(r.reason)
			return
		case <-ctx.Done():
			r.cancelWith(fmt.Errorf("%w: %w", ErrCanceled, context.Cause(ctx)))
			return
		case <-ticker.C:
			r.advance()
		case <-timer.C:
			select {
			case <-r.stop:
				r.cancelWith(r.reason)
			default:
				r.complete()
			}
			return
		}
	}
}

// advance moves progress one step, capped at 100
func (r *Run) advance() {
	r.mu.Lock()
	if r.progress >= 100 {
		r.mu.Unlock()
		return
	}
	r.progress = min(r.progress+r.step, 100)
	progress := r.progress
	r.mu.Unlock()

	r.events <- Event{RunID: r.id, Progress: progress}
}

// complete forces progress to 100 and delivers the result
func (r *Run) complete() {
	result := r.result.clone()

	r.mu.Lock()
	r.progress = 100
	r.state = StateCompleted
	r.mu.Unlock()

	r.events <- Event{RunID: r.id, Progress: 100, Result: &result}

	if r.onFinish != nil {
		r.onFinish(r)
	}
}

func (r *Run) cancelWith(err error) {
	r.mu.Lock()
	r.state = StateCanceled
	r.err = err
	r.mu.Unlock()

	if r.onFinish != nil {
		r.onFinish(r)
	}
}

// stopWith cancels the run for the given reason and waits until its goroutine has exited.
// It is a no-op for a run that already finished.
func (r *Run) stopWith(reason error) {
	r.stopOnce.Do(func() {
		r.reason = reason
		close(r.stop)
	})
	<-r.done
}

// ID returns the unique run identifier
func (r *Run) ID() string { return r.id }

// FileName returns the name the run was started for
func (r *Run) FileName() string { return r.fileName }

// SizeBytes returns the file size the run was started for
func (r *Run) SizeBytes() int64 { return r.sizeBytes }

// Events returns the progress stream. It is closed once the run finishes.
func (r *Run) Events() <-chan Event { return r.events }

// Done is closed once the run completed or was canceled
func (r *Run) Done() <-chan struct{} { return r.done }

// Cancel stops the run and releases its timers. Safe to call multiple times.
func (r *Run) Cancel() {
	r.stopWith(ErrCanceled)
}

// State returns the current lifecycle state
func (r *Run) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Progress returns the latest progress value
func (r *Run) Progress() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.progress
}

// Err returns why the run was canceled, or nil
func (r *Run) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Wait blocks until the run finishes and returns its result.
// A canceled run returns an error wrapping ErrSuperseded or ErrCanceled.
func (r *Run) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateCompleted {
		return nil, r.err
	}
	result := r.result.clone()
	return &result, nil
}

func (r Result) clone() Result {
	r.Tips = append([]string(nil), r.Tips...)
	return r
}
