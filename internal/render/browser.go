package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// Browser renders pages in a shared headless Chrome instance.
// Each Render call opens its own tab.
type Browser struct {
	PageTimeout time.Duration
	SettleDelay time.Duration
	Headless    bool
	UserAgent   string

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// BrowserOption configures a Browser
type BrowserOption func(*Browser)

// WithPageTimeout bounds navigation plus waiting for the body element.
func WithPageTimeout(d time.Duration) BrowserOption { return func(b *Browser) { b.PageTimeout = d } }

// WithSettleDelay sets the pause after the body is ready, giving scripts time to fill the page.
func WithSettleDelay(d time.Duration) BrowserOption { return func(b *Browser) { b.SettleDelay = d } }

// WithHeadless sets whether to run Chrome in headless mode.
func WithHeadless(h bool) BrowserOption { return func(b *Browser) { b.Headless = h } }

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) BrowserOption { return func(b *Browser) { b.UserAgent = ua } }

// NewBrowser starts Chrome. Failure to start is reported as a *SetupError.
func NewBrowser(opts ...BrowserOption) (*Browser, error) {
	b := &Browser{
		PageTimeout: 15 * time.Second,
		SettleDelay: 5 * time.Second,
		Headless:    true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", "ko-KR"),
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
	)
	if b.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(b.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// an empty Run launches the browser process
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, &SetupError{Err: err}
	}

	b.allocCancel = allocCancel
	b.browserCtx = browserCtx
	b.browserCancel = browserCancel
	return b, nil
}

// Render navigates a new tab to url, waits for the body, lets the page settle
// and returns the outer HTML of the document.
func (b *Browser) Render(ctx context.Context, url string) ([]byte, error) {
	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	loadCtx, loadCancel := context.WithTimeout(tabCtx, b.PageTimeout)
	defer loadCancel()
	if err := chromedp.Run(loadCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": AcceptLanguage}),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	var html string
	tasks := chromedp.Tasks{}
	if b.SettleDelay > 0 {
		tasks = append(tasks, chromedp.Sleep(b.SettleDelay))
	}
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err := chromedp.Run(tabCtx, tasks); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}
	return []byte(html), nil
}

// Close shuts down the browser
func (b *Browser) Close() error {
	b.browserCancel()
	b.allocCancel()
	return nil
}
