// Package crawler drives a documentation crawl: render each section, extract it, and persist the results.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/go-scripts/docgen/internal/config"
	"github.com/go-scripts/docgen/internal/extract"
	"github.com/go-scripts/docgen/internal/logger"
	"github.com/go-scripts/docgen/internal/queue"
	"github.com/go-scripts/docgen/internal/render"
	"github.com/go-scripts/docgen/internal/types"
	"github.com/go-scripts/docgen/internal/writer"
)

// Store receives every successfully extracted section
type Store interface {
	SaveSection(ctx context.Context, runID string, s types.Section) error
}

// Observer is notified around each section, e.g. to draw progress
type Observer interface {
	SectionStarted(name, url string)
	SectionFinished(s types.Section, elapsed time.Duration)
}

// SectionError is the failure of a single section. The crawl continues after it.
type SectionError struct {
	Section string
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %q: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// Options holds the crawler settings
type Options struct {
	BaseURL      string
	Sections     []config.Section
	SectionDelay time.Duration
	Title        string
}

// Option configures optional collaborators
type Option func(*Crawler)

// WithStore sends every extracted section to s
func WithStore(s Store) Option {
	return func(c *Crawler) { c.store = s }
}

// WithObserver reports section progress to o
func WithObserver(o Observer) Option {
	return func(c *Crawler) { c.observer = o }
}

// Crawler manages the crawling process
type Crawler struct {
	opts      Options
	queue     *queue.Queue
	renderer  render.Renderer
	extractor *extract.Extractor
	writer    *writer.FileWriter
	logger    *log.Logger
	store     Store
	observer  Observer
	errors    []error
}

// New creates a new Crawler instance
func New(opts Options, r render.Renderer, w *writer.FileWriter, l *log.Logger, options ...Option) *Crawler {
	c := &Crawler{
		opts:      opts,
		queue:     queue.New(opts.Sections...),
		renderer:  r,
		extractor: extract.New(opts.BaseURL),
		writer:    w,
		logger:    l,
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Errors returns the section failures recorded during Run
func (c *Crawler) Errors() []error {
	return c.errors
}

// Run crawls every section in order and writes the aggregate and Markdown artifacts.
// A section failure is recorded on that section. A renderer SetupError or a
// cancelled context ends the run; whatever was crawled so far is still written.
func (c *Crawler) Run(ctx context.Context) (*types.Aggregate, error) {
	agg := types.NewAggregate(types.Metadata{
		CrawledAt: time.Now(),
		BaseURL:   c.opts.BaseURL,
		RunID:     uuid.NewString(),
	})
	c.logger.Info("starting crawl", "base_url", c.opts.BaseURL, "sections", c.queue.Total(), "run_id", agg.Metadata.RunID)

	var runErr error
	for {
		section, ok := c.queue.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		s, err := c.crawlSection(ctx, agg.Metadata.RunID, section)
		if err != nil {
			runErr = err
			break
		}
		agg.Add(s)

		if c.queue.Len() > 0 {
			if err := sleep(ctx, c.opts.SectionDelay); err != nil {
				runErr = err
				break
			}
		}
	}

	c.logger.Info("crawl finished",
		"sections", c.queue.VisitedCount(),
		"total", c.queue.Total(),
		"failed", len(c.errors),
	)
	if err := c.save(agg); err != nil {
		return agg, err
	}
	return agg, runErr
}

func (c *Crawler) crawlSection(ctx context.Context, runID string, section config.Section) (types.Section, error) {
	url := section.URL(c.opts.BaseURL)
	if c.observer != nil {
		c.observer.SectionStarted(section.Name, url)
	}
	c.logger.Debug("rendering", "section", section.Name, "url", url)

	start := time.Now()
	page, err := c.renderer.Render(ctx, url)
	var s types.Section
	if err != nil {
		var setupErr *render.SetupError
		if errors.As(err, &setupErr) {
			return types.Section{}, err
		}
		secErr := &SectionError{Section: section.Name, Err: err}
		c.errors = append(c.errors, secErr)
		s = types.FailedSection(section.Name, url, err)
	} else {
		s = c.extractor.Extract(section.Name, url, page)
	}

	elapsed := time.Since(start)
	logger.LogSection(c.logger, s, elapsed)
	if c.observer != nil {
		c.observer.SectionFinished(s, elapsed)
	}
	if s.Failed() {
		return s, nil
	}

	path, err := c.writer.WriteSection(s)
	if err != nil {
		c.logger.Warn("failed to write section", "section", s.Name, "err", err)
	} else {
		c.logger.Debug("saved section", "path", path)
	}

	if c.store != nil {
		if err := c.store.SaveSection(ctx, runID, s); err != nil {
			c.logger.Warn("failed to store section", "section", s.Name, "err", err)
		}
	}
	return s, nil
}

func (c *Crawler) save(agg *types.Aggregate) error {
	path, err := c.writer.WriteAggregate(agg)
	if err != nil {
		return err
	}
	logger.LogArtifact(c.logger, "aggregate", path)

	path, err = c.writer.WriteMarkdown(c.opts.Title, agg)
	if err != nil {
		return err
	}
	logger.LogArtifact(c.logger, "markdown", path)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
