package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-scripts/docgen/internal/markdown"
	"github.com/go-scripts/docgen/internal/types"
)

// Output file names inside the output directory.
const (
	AggregateFile = "deepsearch_api_complete.json"
	MarkdownFile  = "DEEPSEARCH_API_DOCS.md"
	AnalysisFile  = "api_analysis.json"
	OpenAPIFile   = "openapi.json"
)

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}\p{M}_\s-]`)

// FileWriter handles writing crawl artifacts to the output directory
type FileWriter struct {
	outputDir string
}

// New creates a new FileWriter instance
func New(outputDir string) (*FileWriter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &FileWriter{outputDir: outputDir}, nil
}

// Dir returns the output directory
func (w *FileWriter) Dir() string {
	return w.outputDir
}

// Path returns the location of name inside the output directory
func (w *FileWriter) Path(name string) string {
	return filepath.Join(w.outputDir, name)
}

// WriteSection writes one section to <safe name>.json
func (w *FileWriter) WriteSection(s types.Section) (string, error) {
	return w.WriteJSON(SafeName(s.Name)+".json", s)
}

// WriteAggregate writes the complete crawl result
func (w *FileWriter) WriteAggregate(agg *types.Aggregate) (string, error) {
	return w.WriteJSON(AggregateFile, agg)
}

// WriteMarkdown renders the aggregate as Markdown
func (w *FileWriter) WriteMarkdown(title string, agg *types.Aggregate) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Render(&buf, title, agg); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return w.WriteFile(MarkdownFile, buf.Bytes())
}

// WriteJSON encodes v with two-space indentation and without HTML escaping
func (w *FileWriter) WriteJSON(name string, v any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return w.WriteFile(name, buf.Bytes())
}

// WriteFile writes data to name, replacing any previous content
func (w *FileWriter) WriteFile(name string, data []byte) (string, error) {
	path := w.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

// SafeName turns a section name into a file name stem.
// Letters of any script, digits, underscores and hyphens survive; spaces become underscores.
func SafeName(name string) string {
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return "section"
	}
	return name
}
