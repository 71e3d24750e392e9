// Package browser manages the headless Chrome session used to render
// search-engine result pages.
//
// # Architecture
//
// A Session owns one Chrome process for the lifetime of a run: an exec
// allocator, a browser context, and the navigation settings shared by
// every page fetch. FetchHTML navigates to a result page, waits for the
// engine's result container to become visible, lets deferred scripts
// settle, and returns the rendered document's outer HTML for extraction.
//
// The session is a thin lifecycle wrapper. Chrome flags are limited to
// what headless operation needs (sandbox, GPU, shared memory, window
// size, user agent); there is no anti-bot evasion here, and none is
// planned. When an engine serves an interstitial instead of results, the
// fetch fails on the wait selector and the caller moves on.
//
// Design decision: one Chrome per run rather than one per page. Process
// startup dominates page fetch time, and reusing the browser keeps the
// request cadence looking like one visitor paging through results.
package browser
