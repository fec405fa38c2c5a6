// Package fetch - browser.go manages the single shared headless browser.
package fetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/network-overlap/internal/logger"
	"go.uber.org/zap"
)

// ErrBrowserClosed is returned after Close.
var ErrBrowserClosed = errors.New("browser manager closed")

// BrowserConfig configures the browser process.
type BrowserConfig struct {
	ExecPath      string // Chrome/Chromium executable; auto-detected when empty
	Headless      bool
	UserAgent     string
	HealthTimeout time.Duration
}

// DefaultBrowserConfig returns a headless configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless:      true,
		UserAgent:     DefaultUserAgent,
		HealthTimeout: 5 * time.Second,
	}
}

// BrowserManager owns one browser process shared by every fetch. The browser
// is launched on first use, health-checked on every use, and relaunched when
// the check fails.
type BrowserManager struct {
	cfg    BrowserConfig
	logger *zap.Logger

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	launches      int
	closed        bool
}

// NewBrowserManager creates a manager. No browser is started until first use.
func NewBrowserManager(cfg BrowserConfig, log *zap.Logger) *BrowserManager {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 5 * time.Second
	}
	return &BrowserManager{cfg: cfg, logger: logger.OrNop(log).Named("browser")}
}

// NewTab opens a new tab in the shared browser. The returned cancel func closes the tab.
func (m *BrowserManager) NewTab() (context.Context, context.CancelFunc, error) {
	browserCtx, err := m.acquire()
	if err != nil {
		return nil, nil, err
	}
	tabCtx, cancel := chromedp.NewContext(browserCtx)
	return tabCtx, cancel, nil
}

// Launches reports how many browser processes have been started.
func (m *BrowserManager) Launches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.launches
}

// Invalidate shuts the current browser down; the next use launches a fresh one.
// Call it whenever the session credential changes.
func (m *BrowserManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.browserCtx != nil {
		m.logger.Info("invalidating browser")
	}
	m.shutdownLocked()
}

// Close shuts the browser down and rejects further use.
func (m *BrowserManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.shutdownLocked()
	return nil
}

func (m *BrowserManager) acquire() (context.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrBrowserClosed
	}

	if m.browserCtx != nil {
		err := m.checkHealthLocked()
		if err == nil {
			return m.browserCtx, nil
		}
		m.logger.Warn("browser health check failed, relaunching", zap.Error(err))
		m.shutdownLocked()
	}

	if err := m.launchLocked(); err != nil {
		return nil, err
	}
	return m.browserCtx, nil
}

func (m *BrowserManager) launchLocked() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", m.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(m.cfg.UserAgent),
	)
	if m.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(m.cfg.ExecPath))
	}

	// The browser outlives any single request, so it hangs off Background
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(m.logger.Sugar().Debugf),
		chromedp.WithErrorf(m.logger.Sugar().Debugf),
	)

	// The first Run starts the process; it must not carry a timeout or the
	// browser would be killed when the timeout fires
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return &Error{Message: "failed to launch browser", Cause: err}
	}

	m.allocCancel = allocCancel
	m.browserCtx = browserCtx
	m.browserCancel = browserCancel
	m.launches++
	m.logger.Info("browser launched", zap.Int("launches", m.launches), zap.Bool("headless", m.cfg.Headless))
	return nil
}

func (m *BrowserManager) checkHealthLocked() error {
	if err := m.browserCtx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(m.browserCtx, m.cfg.HealthTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, _, _, _, err := browser.GetVersion().Do(ctx)
		return err
	}))
}

func (m *BrowserManager) shutdownLocked() {
	if m.browserCtx != nil {
		if err := chromedp.Cancel(m.browserCtx); err != nil && !errors.Is(err, context.Canceled) {
			m.logger.Debug("browser close", zap.Error(err))
		}
	}
	if m.browserCancel != nil {
		m.browserCancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
	m.browserCtx = nil
	m.browserCancel = nil
	m.allocCancel = nil
}
