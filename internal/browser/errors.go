package browser

import "errors"

// Browser session errors.
//
// Design decision: We define specific error types rather than wrapping all
// errors generically. This allows callers to handle different failure modes
// appropriately (e.g., retry a timed-out page, but fail fast when no Chrome
// binary exists).
var (
	// ErrChromeNotFound is returned when no Chrome or Chromium binary can
	// be located. Set an explicit binary path to resolve this.
	ErrChromeNotFound = errors.New("no chrome or chromium binary found in PATH")

	// ErrBrowserStart is returned when the Chrome process fails to start
	// or the initial blank navigation fails.
	ErrBrowserStart = errors.New("failed to start browser")

	// ErrSessionClosed is returned when a fetch is attempted on a session
	// that has been closed.
	ErrSessionClosed = errors.New("browser session is closed")

	// ErrPageTimeout is returned when a page navigation or render wait
	// exceeds the configured page timeout. Usually an interstitial rather
	// than a slow network.
	ErrPageTimeout = errors.New("page load timed out")
)
