package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/network-overlap/internal/logger"
	"go.uber.org/zap"
)

// ScrapeConfig controls how a profile page is loaded and read.
type ScrapeConfig struct {
	CookieName   string
	CookieDomain string
	CookieSecure bool

	PageTimeout time.Duration
	SettleDelay time.Duration

	ScrollStep        int
	ScrollInterval    time.Duration
	MaxScrollSteps    int
	MaxScrollDistance int
	PostScrollDelay   time.Duration

	MinTextLength int
	MaxTextLength int
}

// DefaultScrapeConfig returns settings tuned for profile pages.
func DefaultScrapeConfig() ScrapeConfig {
	return ScrapeConfig{
		CookieName:        "li_at",
		CookieDomain:      ".linkedin.com",
		CookieSecure:      true,
		PageTimeout:       90 * time.Second,
		SettleDelay:       3 * time.Second,
		ScrollStep:        400,
		ScrollInterval:    100 * time.Millisecond,
		MaxScrollSteps:    15,
		MaxScrollDistance: 5000,
		PostScrollDelay:   2 * time.Second,
		MinTextLength:     100,
		MaxTextLength:     30000,
	}
}

// Page is the text captured from a loaded profile.
type Page struct {
	URL          string
	FinalURL     string
	Text         string
	FromFallback bool
}

// Tabs opens browser tabs. *BrowserManager implements it.
type Tabs interface {
	NewTab() (context.Context, context.CancelFunc, error)
}

// ProfileScraper loads profile pages with the session cookie attached.
type ProfileScraper struct {
	tabs   Tabs
	cfg    ScrapeConfig
	logger *zap.Logger
}

// NewProfileScraper creates a scraper over the given tab source.
func NewProfileScraper(tabs Tabs, cfg ScrapeConfig, log *zap.Logger) *ProfileScraper {
	return &ProfileScraper{tabs: tabs, cfg: cfg, logger: logger.OrNop(log).Named("scraper")}
}

const mainTextScript = `(() => {
	const main = document.querySelector('main');
	return (main || document.body).innerText || '';
})()`

const scrollScript = `(() => { window.scrollBy(0, %d); return document.body.scrollHeight; })()`

// Fetch loads pageURL with the session cookie and returns its visible text.
// A missing cookie or a redirect to a login page yields ErrSessionExpired.
func (s *ProfileScraper) Fetch(ctx context.Context, pageURL, cookie string) (*Page, error) {
	if strings.TrimSpace(cookie) == "" {
		return nil, ErrSessionExpired
	}

	tabCtx, closeTab, err := s.tabs.NewTab()
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to open browser tab", Cause: err}
	}
	defer closeTab()

	tabCtx, cancel := context.WithTimeout(tabCtx, s.cfg.PageTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	log := s.logger.With(zap.String(logger.FieldProfileURL, pageURL))
	start := time.Now()

	var location string
	err = chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetCookie(s.cfg.CookieName, cookie).
				WithDomain(s.cfg.CookieDomain).
				WithPath("/").
				WithHTTPOnly(true).
				WithSecure(s.cfg.CookieSecure).
				Do(ctx)
		}),
		chromedp.Navigate(pageURL),
		chromedp.Sleep(s.cfg.SettleDelay),
		chromedp.Location(&location),
	)
	if err != nil {
		return nil, s.runError(ctx, pageURL, "failed to load page", err)
	}

	if IsAuthRedirect(location) {
		log.Warn("redirected to login", zap.String("location", location))
		return nil, &Error{URL: pageURL, Message: "redirected to " + location, Cause: ErrSessionExpired}
	}

	if err := s.scroll(tabCtx); err != nil {
		return nil, s.runError(ctx, pageURL, "failed to scroll page", err)
	}

	var text string
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(mainTextScript, &text)); err != nil {
		return nil, s.runError(ctx, pageURL, "failed to read page text", err)
	}
	text = cleanWhitespace(text)

	page := &Page{URL: pageURL, FinalURL: location}
	if len([]rune(text)) < s.cfg.MinTextLength {
		log.Debug("main text too short, retrying against body", zap.Int("length", len(text)))

		var html string
		if err := chromedp.Run(tabCtx, chromedp.OuterHTML("body", &html, chromedp.ByQuery)); err != nil {
			return nil, s.runError(ctx, pageURL, "failed to read page body", err)
		}
		text, err = ExtractMainText(html, nil, ProfileNoiseSelectors()...)
		if err != nil {
			return nil, &Error{URL: pageURL, Message: "failed to parse page body", Cause: err}
		}
		page.FromFallback = true
	}

	if len([]rune(text)) < s.cfg.MinTextLength {
		return nil, &Error{URL: pageURL, Message: "page has no readable profile content"}
	}

	page.Text = truncateRunes(text, s.cfg.MaxTextLength)
	log.Info("page captured",
		zap.Int("length", len(page.Text)),
		zap.Bool("fallback", page.FromFallback),
		zap.Duration("duration", time.Since(start)),
	)
	return page, nil
}

// scroll steps down the page until the step or distance cap is hit or the
// page stops growing.
func (s *ProfileScraper) scroll(ctx context.Context) error {
	script := fmt.Sprintf(scrollScript, s.cfg.ScrollStep)
	distance, lastHeight := 0, 0
	for step := 0; ; step++ {
		var height int
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, &height)); err != nil {
			return err
		}
		distance += s.cfg.ScrollStep
		if scrollDone(step+1, distance, height, lastHeight, s.cfg) {
			break
		}
		lastHeight = height
		if err := chromedp.Run(ctx, chromedp.Sleep(s.cfg.ScrollInterval)); err != nil {
			return err
		}
	}
	return chromedp.Run(ctx, chromedp.Sleep(s.cfg.PostScrollDelay))
}

// scrollDone reports whether scrolling should stop after the given number of steps.
func scrollDone(steps, distance, height, lastHeight int, cfg ScrapeConfig) bool {
	if steps >= cfg.MaxScrollSteps || distance >= cfg.MaxScrollDistance {
		return true
	}
	// Scrolled past the bottom and nothing new loaded
	return distance >= height && height == lastHeight
}

func (s *ProfileScraper) runError(ctx context.Context, pageURL, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &Error{URL: pageURL, Message: msg, Cause: err}
}
