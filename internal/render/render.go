// Package render fetches documentation pages as HTML.
package render

import (
	"context"
	"fmt"
)

// AcceptLanguage is sent with every page request
const AcceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"

// Renderer returns the HTML of a page after it has finished loading.
type Renderer interface {
	Render(ctx context.Context, url string) ([]byte, error)
	Close() error
}

// SetupError means the renderer itself could not start. A crawl cannot continue after it.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("renderer setup failed: %v", e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
