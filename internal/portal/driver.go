package portal

import (
	"context"
	"fmt"
)

// PageRequest carries the parameters of one in-page report data
// request. Dates are in the portal's DD/MM/YYYY form.
type PageRequest struct {
	StartDate string
	EndDate   string
	Sort      string
	Page      int
}

// Driver abstracts the controlled browser page so the session manager
// and the report fetcher can be exercised against a fake portal. The
// production implementation drives a headless browser via rod.
type Driver interface {
	// Open launches or reuses the underlying browser process and a
	// single controlled page. The given ctx scopes the browser's
	// lifetime, so it must outlive every request served by the
	// session; per-operation deadlines come from the ctx of the other
	// methods.
	Open(ctx context.Context) error

	// Navigate loads the given URL and waits for it to settle.
	Navigate(ctx context.Context, url string) error

	// Location returns the page's current URL.
	Location(ctx context.Context) (string, error)

	// SubmitLogin fills the portal's login form and submits it.
	SubmitLogin(ctx context.Context, username, password string) error

	// Probe performs a trivial read against the page to verify the
	// session is still usable.
	Probe(ctx context.Context) error

	// OpenCallsReport walks the portal's menu to the calls report
	// view. Called once per session, not per page of data.
	OpenCallsReport(ctx context.Context) error

	// FetchReportPage issues the in-page data request for one page
	// of the report and returns the raw HTML fragment.
	FetchReportPage(ctx context.Context, req PageRequest) (string, error)

	// Close tears down the page and browser process.
	Close() error
}

// DriverFactory builds a fresh Driver. The session manager calls it
// lazily, and again after an unrecoverable navigation failure.
type DriverFactory func() Driver

// SessionError reports a failure to establish or keep a portal
// session: login rejected, navigation timeout, unexpected redirect.
type SessionError struct {
	Op       string
	Location string
	Err      error
}

func (e *SessionError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("session %s: unexpected location %q", e.Op, e.Location)
	}
	return fmt.Sprintf("session %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }
