package browser

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

// Default session settings.
const (
	// defaultPageTimeout bounds one navigation including the render wait.
	defaultPageTimeout = 30 * time.Second

	// defaultLoadWait is the settle time after the wait selector appears,
	// giving deferred scripts a chance to fill in result blocks.
	defaultLoadWait = 2 * time.Second

	// defaultWindowWidth and defaultWindowHeight give Chrome a desktop
	// viewport; engines serve different markup to narrow windows.
	defaultWindowWidth  = 1280
	defaultWindowHeight = 1024
)

// chromeCandidates are the binary names probed when no explicit Chrome
// path is configured, in preference order.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

// options holds session construction settings.
type options struct {
	headless     bool
	userAgent    string
	execPath     string
	windowWidth  int
	windowHeight int
	pageTimeout  time.Duration
	loadWait     time.Duration
}

// Option configures a Session.
type Option func(*options)

// WithHeadless controls whether Chrome runs without a visible window.
// Defaults to true; disable for debugging extraction against a live engine.
func WithHeadless(headless bool) Option {
	return func(o *options) {
		o.headless = headless
	}
}

// WithUserAgent sets the browser identity sent with page loads.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithExecPath sets an explicit Chrome/Chromium binary path, bypassing
// the PATH probe.
func WithExecPath(path string) Option {
	return func(o *options) {
		o.execPath = path
	}
}

// WithWindowSize sets the browser viewport dimensions.
func WithWindowSize(width, height int) Option {
	return func(o *options) {
		o.windowWidth = width
		o.windowHeight = height
	}
}

// WithPageTimeout bounds a single page navigation including render wait.
func WithPageTimeout(d time.Duration) Option {
	return func(o *options) {
		o.pageTimeout = d
	}
}

// WithLoadWait sets the settle time between the wait selector appearing
// and the DOM being captured.
func WithLoadWait(d time.Duration) Option {
	return func(o *options) {
		o.loadWait = d
	}
}

// newOptions returns the default session settings.
func newOptions() *options {
	return &options{
		headless:     true,
		windowWidth:  defaultWindowWidth,
		windowHeight: defaultWindowHeight,
		pageTimeout:  defaultPageTimeout,
		loadWait:     defaultLoadWait,
	}
}

// Session owns one headless Chrome process and renders result pages with it.
// Create with NewSession, fetch pages with FetchHTML, and always Close.
//
// A Session is not safe for concurrent FetchHTML calls; one browser renders
// one page at a time. Batch mode gives each query its own Session.
type Session struct {
	browserCtx  context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	pageTimeout time.Duration
	loadWait    time.Duration
	closed      bool
}

// NewSession starts a Chrome process configured by the given options.
// The browser is started eagerly so that a missing or broken Chrome
// installation surfaces here rather than on the first page fetch.
//
// The passed context bounds the whole session: cancelling it terminates
// the browser and fails any in-flight fetch.
func NewSession(ctx context.Context, opts ...Option) (*Session, error) {
	o := newOptions()
	for _, opt := range opts {
		opt(o)
	}

	execPath := o.execPath
	if execPath == "" {
		found, err := LookPathChrome()
		if err != nil {
			return nil, err
		}
		execPath = found
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.Flag("headless", o.headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(o.windowWidth, o.windowHeight),
	)
	if o.userAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(o.userAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Eager start: a blank navigation forces the process to launch
	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %v", ErrBrowserStart, err)
	}

	return &Session{
		browserCtx:  browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		pageTimeout: o.pageTimeout,
		loadWait:    o.loadWait,
	}, nil
}

// FetchHTML navigates to pageURL, waits for waitSelector to become
// visible, lets the DOM settle, and returns the rendered document's
// outer HTML.
//
// The fetch is bounded by the session's page timeout and by ctx,
// whichever ends first. A timeout is reported as ErrPageTimeout so
// callers can distinguish a slow or blocked page from a hard failure.
func (s *Session) FetchHTML(ctx context.Context, pageURL, waitSelector string) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}

	runCtx, cancel := context.WithTimeout(s.browserCtx, s.pageTimeout)
	defer cancel()

	// Propagate caller cancellation into the chromedp run
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var htmlSrc string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
		chromedp.Sleep(s.loadWait),
		chromedp.OuterHTML("html", &htmlSrc, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", ErrPageTimeout, pageURL)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	return htmlSrc, nil
}

// Close terminates the Chrome process. Safe to call more than once.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancelCtx()
	s.cancelAlloc()
}

// LookPathChrome locates a Chrome or Chromium binary in PATH.
// Returns ErrChromeNotFound when no candidate resolves.
func LookPathChrome() (string, error) {
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrChromeNotFound
}
