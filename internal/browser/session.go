// Package browser drives a Chrome instance through chromedp and exposes it as an interfaces.Surface.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/common"
)

// SessionConfig holds the Chrome launch options
type SessionConfig struct {
	Headless       bool
	DisableGPU     bool
	NoSandbox      bool
	WindowWidth    int
	WindowHeight   int
	UserAgent      string
	StartupTimeout time.Duration
}

// SessionConfigFrom maps the application browser config onto launch options
func SessionConfigFrom(config common.BrowserConfig) SessionConfig {
	return SessionConfig{
		Headless:       config.Headless,
		DisableGPU:     config.DisableGPU,
		NoSandbox:      config.NoSandbox,
		WindowWidth:    config.WindowWidth,
		WindowHeight:   config.WindowHeight,
		UserAgent:      config.UserAgent,
		StartupTimeout: common.ParseDurationOr(config.NavTimeout, 30*time.Second),
	}
}

// Session owns one browser tab. It is the single shared UI resource of a scenario.
type Session struct {
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	allocatorCancel context.CancelFunc
	logger          arbor.ILogger
	mu              sync.Mutex
	closed          bool
}

// NewSession launches Chrome and verifies it responds before returning
func NewSession(parent context.Context, config SessionConfig, logger arbor.ILogger) (*Session, error) {
	startTime := time.Now()

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", config.DisableGPU),
		chromedp.Flag("no-sandbox", config.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if config.WindowWidth > 0 && config.WindowHeight > 0 {
		allocatorOpts = append(allocatorOpts, chromedp.WindowSize(config.WindowWidth, config.WindowHeight))
	}
	if config.UserAgent != "" {
		allocatorOpts = append(allocatorOpts, chromedp.UserAgent(config.UserAgent))
	}

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(parent, allocatorOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	startupTimeout := config.StartupTimeout
	if startupTimeout <= 0 {
		startupTimeout = 30 * time.Second
	}
	testCtx, testCancel := context.WithTimeout(browserCtx, startupTimeout)
	defer testCancel()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("browser failed startup test: %w", err)
	}

	logger.Debug().
		Bool("headless", config.Headless).
		Dur("startup_time", time.Since(startTime)).
		Msg("Browser session started")

	return &Session{
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		allocatorCancel: allocatorCancel,
		logger:          logger,
	}, nil
}

// Navigate loads url and waits for the document body
func (s *Session) Navigate(ctx context.Context, url string) error {
	err := run(ctx, s.browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	s.logger.Debug().Str("url", url).Msg("Page loaded")
	return nil
}

// Surface returns the element-level capability bound to this session's tab
func (s *Session) Surface() *Surface {
	return &Surface{browserCtx: s.browserCtx}
}

// Close shuts the tab and the browser process
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := chromedp.Cancel(s.browserCtx); err != nil {
		s.logger.Warn().Err(err).Msg("Browser cancel returned an error")
	}
	s.browserCancel()
	s.allocatorCancel()

	s.logger.Debug().Msg("Browser session closed")
	return nil
}

// run executes actions on the browser tab, bounded by the caller's deadline and cancellation.
// chromedp actions must run on a context derived from the tab context.
func run(ctx context.Context, browserCtx context.Context, actions ...chromedp.Action) error {
	var runCtx context.Context
	var cancel context.CancelFunc
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(browserCtx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(browserCtx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}
