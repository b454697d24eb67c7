// Package logger configures the charmbracelet logger shared by all commands.
package logger

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-scripts/docgen/internal/types"
)

// New returns a logger writing to w at the named level. Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "docgen",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// LogSection logs the outcome of one crawled section
func LogSection(l *log.Logger, s types.Section, elapsed time.Duration) {
	if s.Failed() {
		l.Error("section failed", "section", s.Name, "url", s.URL, "err", s.Error)
		return
	}
	l.Info("section crawled",
		"section", s.Name,
		"endpoints", len(s.Endpoints),
		"parameters", s.Parameters.Len(),
		"examples", len(s.Examples),
		"elapsed", elapsed.Round(time.Millisecond),
	)
	for _, ep := range s.Endpoints {
		l.Debug("endpoint", "section", s.Name, "method", ep.Method, "path", ep.Path)
	}
}

// LogArtifact logs a file written to disk
func LogArtifact(l *log.Logger, kind, path string) {
	l.Info("saved", "kind", kind, "path", path)
}
