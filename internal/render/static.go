package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// Static fetches pages over plain HTTP without running scripts.
// It suits documentation that is rendered server side and is used in tests.
type Static struct {
	UserAgent string
	Timeout   time.Duration
}

// NewStatic returns a Static renderer
func NewStatic(userAgent string, timeout time.Duration) *Static {
	return &Static{UserAgent: userAgent, Timeout: timeout}
}

// Render fetches url and returns the response body. Non-2xx responses are errors.
func (s *Static) Render(ctx context.Context, url string) ([]byte, error) {
	opts := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	}
	if s.UserAgent != "" {
		opts = append(opts, colly.UserAgent(s.UserAgent))
	}
	c := colly.NewCollector(opts...)
	if s.Timeout > 0 {
		c.SetRequestTimeout(s.Timeout)
	}

	var (
		body    []byte
		respErr error
	)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", AcceptLanguage)
	})
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		respErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
	})

	err := c.Visit(url)
	c.Wait()
	if respErr != nil {
		return nil, respErr
	}
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if body == nil {
		return nil, errors.New("empty response")
	}
	return body, nil
}

// Close is a no-op; Static holds no resources between calls.
func (s *Static) Close() error {
	return nil
}
