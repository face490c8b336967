package classifier

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTickInterval is the cadence of progress updates
	DefaultTickInterval = 100 * time.Millisecond

	// DefaultProgressStep is how far progress advances per tick
	DefaultProgressStep = 5

	// DefaultDuration is how long a simulated classification takes
	DefaultDuration = 2 * time.Second
)

// Config holds configuration for the Simulator
type Config struct {
	// Catalog is the waste type table. If nil, uses DefaultCatalog.
	Catalog *Catalog

	// TickInterval is the progress cadence. If 0, uses DefaultTickInterval.
	TickInterval time.Duration

	// ProgressStep is the per-tick progress increment. If 0, uses DefaultProgressStep.
	ProgressStep int

	// Duration is the total simulated latency. If 0, uses DefaultDuration.
	Duration time.Duration

	// Logger receives lifecycle logs. If nil, logging is disabled.
	Logger *zap.Logger
}

// applyDefaults fills in default values for unset config fields
func (c *Config) applyDefaults() {
	if c.Catalog == nil {
		c.Catalog = DefaultCatalog()
	}

	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}

	if c.ProgressStep <= 0 {
		c.ProgressStep = DefaultProgressStep
	}

	if c.Duration <= 0 {
		c.Duration = DefaultDuration
	}

	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
