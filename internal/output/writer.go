// Package output provides output formatting for analysis results.
package output

import (
	"io"

	"github.com/apiscout/apiscout/pkg/analyzer"
)

// Writer defines the interface for output writers.
type Writer interface {
	// WriteResult writes the complete analysis result
	WriteResult(result *analyzer.Result) error

	// WriteCandidate writes a single candidate endpoint (for streaming)
	WriteCandidate(candidate *analyzer.CandidateEndpoint) error

	// Flush flushes any buffered output
	Flush() error

	// Close closes the writer
	Close() error
}

// Config holds output configuration.
type Config struct {
	Format   string
	Pretty   bool
	Stream   bool
	FilePath string
}

// NewWriter creates a new output writer.
func NewWriter(w io.Writer, config Config) Writer {
	switch config.Format {
	case "json":
		return NewJSONWriter(w, config.Pretty, config.Stream)
	default:
		return NewJSONWriter(w, config.Pretty, config.Stream)
	}
}
