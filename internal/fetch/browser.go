package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// DefaultBrowserTimeout bounds one headless render.
const DefaultBrowserTimeout = 30 * time.Second

// BrowserRelay renders the target in headless Chrome, for pages that build
// their content with JavaScript. Requires Chrome/Chromium on the host.
type BrowserRelay struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready before reading HTML.
	Settle time.Duration
	Logger *zap.Logger
}

// Name implements Relay.
func (b *BrowserRelay) Name() string {
	return RelayBrowser
}

// Fetch implements Relay.
func (b *BrowserRelay) Fetch(ctx context.Context, target string) (string, error) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	settle := b.Settle
	if settle <= 0 {
		settle = 2 * time.Second
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("starting headless browser", zap.String("url", target))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug("rendered page", zap.String("url", target), zap.Int("bytes", len(html)))
	return html, nil
}
