package analyzer

import (
	"time"

	"github.com/apiscout/apiscout/internal/capture"
	"github.com/apiscout/apiscout/internal/logger"
	"github.com/apiscout/apiscout/internal/metrics"
)

// Option is a functional option for configuring the Analyzer.
type Option func(*Analyzer) error

// WithConfig replaces the whole configuration.
func WithConfig(cfg *Config) Option {
	return func(a *Analyzer) error {
		a.config = cfg
		return nil
	}
}

// WithConfigFile loads configuration from a file.
func WithConfigFile(path string) Option {
	return func(a *Analyzer) error {
		cfg, err := LoadFromFile(path)
		if err != nil {
			return err
		}
		a.config = cfg
		return nil
	}
}

// WithCaptureConfig sets the browser collector configuration.
func WithCaptureConfig(cfg capture.Config) Option {
	return func(a *Analyzer) error {
		a.config.Capture = cfg
		return nil
	}
}

// WithCollector replaces the page collector. Useful for testing.
func WithCollector(c Collector) Option {
	return func(a *Analyzer) error {
		a.collector = c
		return nil
	}
}

// WithRateLimit sets the visit pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *Analyzer) error {
		a.config.RateLimit.RequestsPerSecond = rps
		a.config.RateLimit.Burst = burst
		return nil
	}
}

// WithHostDelay sets the minimum spacing between visits to the same host.
func WithHostDelay(d time.Duration) Option {
	return func(a *Analyzer) error {
		a.config.RateLimit.HostDelay = d
		return nil
	}
}

// WithMaxDepthLinks bounds how many next-depth links a result carries.
func WithMaxDepthLinks(n int) Option {
	return func(a *Analyzer) error {
		if n < 1 {
			n = 1
		}
		a.config.MaxDepthLinks = n
		return nil
	}
}

// WithHeadless toggles headless browser mode.
func WithHeadless(headless bool) Option {
	return func(a *Analyzer) error {
		a.config.Capture.Headless = headless
		return nil
	}
}

// WithLogger replaces the analyzer logger.
func WithLogger(log *logger.Logger) Option {
	return func(a *Analyzer) error {
		a.log = log
		return nil
	}
}

// WithMetrics replaces the metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(a *Analyzer) error {
		a.metrics = m
		return nil
	}
}

// WithVerbose enables verbose logging.
func WithVerbose(verbose bool) Option {
	return func(a *Analyzer) error {
		a.config.Verbose = verbose
		return nil
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(a *Analyzer) error {
		a.config.Debug = debug
		return nil
	}
}
