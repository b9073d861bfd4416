package player

import (
	"time"

	"chordfm/logger"
)

// Navigator abstracts the client surface the opener drives. The production
// implementation talks to the browser tab; tests use fakes.
type Navigator interface {
	// NavigateApp points the current document at an app deep link, relying on
	// the OS to hand off to an installed app or no-op.
	NavigateApp(url string)
	// OpenWebTab opens a URL in a new background tab with noopener/noreferrer
	// isolation.
	OpenWebTab(url string)
	// InForeground reports whether the page is still the foreground document.
	InForeground() bool
	// Notify surfaces a user-facing notice.
	Notify(msg string)
}

// OpenOutcome says which path the opener took.
type OpenOutcome string

const (
	OutcomeApp    OpenOutcome = "app"
	OutcomeWeb    OpenOutcome = "web"
	OutcomeNoLink OpenOutcome = "no_link"
)

// Opener attempts native-app deep links with a timed web fallback.
//
// The fallback is an acknowledged best-effort heuristic: document visibility
// after the timeout cannot distinguish "app opened and returned focus
// quickly" from "app never opened". False positives and negatives are
// accepted.
type Opener struct {
	nav     Navigator
	timeout time.Duration
}

// NewOpener creates an opener with the given fallback timeout (the
// recommended default is 1500ms, configured via OPEN_FALLBACK_TIMEOUT_MS).
func NewOpener(nav Navigator, timeout time.Duration) *Opener {
	return &Opener{nav: nav, timeout: timeout}
}

// Open opens a resolved link. With preferApp and an app URL present it
// navigates to the deep link and schedules a fallback: if the page is still
// in the foreground when the timer fires, the web URL opens in a background
// tab. Without an app preference (or app URL) the web URL opens directly.
// A link with neither URL produces a user-facing notice, never an error.
func (o *Opener) Open(link ResolvedLink, preferApp bool) OpenOutcome {
	if preferApp && link.AppURL != "" {
		o.nav.NavigateApp(link.AppURL)
		if link.WebURL != "" {
			web := link.WebURL
			time.AfterFunc(o.timeout, func() {
				if o.nav.InForeground() {
					logger.Debug("app deep link did not take focus, falling back to web",
						logger.String("provider", string(link.Provider)))
					o.nav.OpenWebTab(web)
				}
			})
		}
		return OutcomeApp
	}

	if link.WebURL != "" {
		o.nav.OpenWebTab(link.WebURL)
		return OutcomeWeb
	}

	o.nav.Notify("No playback link available for this track.")
	return OutcomeNoLink
}
