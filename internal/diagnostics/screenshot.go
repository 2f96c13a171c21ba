// Package diagnostics captures best-effort failure screenshots keyed by operation label.
package diagnostics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/interfaces"
)

// captureTimeout bounds a capture even when the failing operation's context already expired
const captureTimeout = 5 * time.Second

var (
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
	repeatedSep = regexp.MustCompile(`_+`)
)

// Screenshotter is the part of interfaces.Surface a capturer needs
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// ScreenshotCapturer writes PNG captures into a directory, sequence-numbered per run
type ScreenshotCapturer struct {
	source  Screenshotter
	dir     string
	enabled bool
	logger  arbor.ILogger

	mu       sync.Mutex
	seq      int
	lastPath string
}

var _ interfaces.Capturer = (*ScreenshotCapturer)(nil)

// NewScreenshotCapturer creates a capturer; a disabled capturer only logs the label
func NewScreenshotCapturer(source Screenshotter, dir string, enabled bool, logger arbor.ILogger) *ScreenshotCapturer {
	return &ScreenshotCapturer{
		source:  source,
		dir:     dir,
		enabled: enabled,
		logger:  logger,
	}
}

// Capture saves a screenshot named from label. Failures are logged, never returned.
func (c *ScreenshotCapturer) Capture(ctx context.Context, label string) {
	if !c.enabled || c.source == nil {
		c.logger.Debug().Str("label", label).Msg("Diagnostics disabled, skipping capture")
		return
	}

	captureCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), captureTimeout)
	defer cancel()

	buf, err := c.source.Screenshot(captureCtx)
	if err != nil {
		c.logger.Warn().Err(err).Str("label", label).Msg("Failed to capture diagnostic screenshot")
		return
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		c.logger.Warn().Err(err).Str("dir", c.dir).Msg("Failed to create screenshots directory")
		return
	}

	c.mu.Lock()
	c.seq++
	filename := filepath.Join(c.dir, fmt.Sprintf("%02d_%s-%s.png", c.seq, SanitizeLabel(label), time.Now().Format("2006-01-02_15-04-05")))
	c.mu.Unlock()

	if err := os.WriteFile(filename, buf, 0644); err != nil {
		c.logger.Warn().Err(err).Str("file", filename).Msg("Failed to save diagnostic screenshot")
		return
	}

	c.mu.Lock()
	c.lastPath = filename
	c.mu.Unlock()

	c.logger.Info().Str("label", label).Str("file", filename).Msg("Diagnostic screenshot saved")
}

// LastPath returns the file written by the most recent successful capture
func (c *ScreenshotCapturer) LastPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPath
}

// SanitizeLabel converts an operation label into a safe file name fragment
func SanitizeLabel(label string) string {
	name := unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
	name = strings.Trim(repeatedSep.ReplaceAllString(name, "_"), "_")
	if name == "" {
		return "capture"
	}
	return name
}
