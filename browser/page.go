// Package browser wraps the Chrome DevTools session behind a small
// capability interface so the extraction logic can be exercised against a
// fake page in tests.
package browser

import "time"

// Cookie is a name/value pair copied out of the browser session so photo
// downloads can reuse its authentication state.
type Cookie struct {
	Name  string
	Value string
}

// Page is the querying/navigation capability every extractor works
// against. Read operations (Text, Texts, Attr, Attrs, Count, Cookies)
// swallow per-element failures and report "no value"; they never abort
// the surrounding extraction pass. Navigation, waits, clicks and script
// evaluation return errors because their failures are meaningful to the
// caller.
type Page interface {
	// Navigate loads the given URL and blocks until the load event.
	Navigate(url string) error
	// CurrentURL returns the page's current location.
	CurrentURL() (string, error)
	// WaitVisible blocks until an element matching the selector is
	// visible, or the timeout elapses.
	WaitVisible(selector string, timeout time.Duration) error
	// Submit clears the first element matching the selector, types the
	// given text into it and presses Enter.
	Submit(selector, text string) error

	// Text returns the trimmed rendered text of the first match, falling
	// back to the raw text content when the rendered text is empty
	// (covers CSS-hidden-but-present text). Empty string when nothing
	// matches.
	Text(selector string) string
	// Texts returns the (rendered-or-raw) text of every match, in DOM
	// order, empties skipped.
	Texts(selector string) []string
	// Attr returns the trimmed attribute value of the first match, or "".
	Attr(selector, attr string) string
	// Attrs returns the attribute value of every match that has it.
	Attrs(selector, attr string) []string
	// Count returns the number of elements matching the selector.
	Count(selector string) int

	// Click dispatches a JavaScript click on the first match.
	Click(selector string) error
	// Eval runs the script and unmarshals its result into out (out may be
	// nil when the result is not needed).
	Eval(js string, out any) error
	// Cookies returns the session's cookies.
	Cookies() []Cookie
}
