package player

import (
	"sync"
	"testing"
	"time"
)

// fakeNavigator records opener actions; foreground is configurable to stand
// in for the document-visibility probe.
type fakeNavigator struct {
	mu         sync.Mutex
	appURL     string
	webURLs    []string
	notices    []string
	foreground bool
}

func (n *fakeNavigator) NavigateApp(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.appURL = url
}

func (n *fakeNavigator) OpenWebTab(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.webURLs = append(n.webURLs, url)
}

func (n *fakeNavigator) InForeground() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.foreground
}

func (n *fakeNavigator) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, msg)
}

func (n *fakeNavigator) webOpens() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.webURLs...)
}

var testLink = ResolvedLink{
	Provider:        ProviderYoutube,
	ProviderTrackID: "yt1",
	WebURL:          "https://www.youtube.com/watch?v=yt1",
	AppURL:          "vnd.youtube://watch?v=yt1",
}

func TestOpenWebDirectly(t *testing.T) {
	nav := &fakeNavigator{}
	o := NewOpener(nav, time.Millisecond)

	if got := o.Open(testLink, false); got != OutcomeWeb {
		t.Errorf("Open() = %q; want %q", got, OutcomeWeb)
	}
	if opens := nav.webOpens(); len(opens) != 1 || opens[0] != testLink.WebURL {
		t.Errorf("web opens = %v", opens)
	}
	if nav.appURL != "" {
		t.Errorf("app navigation happened without preferApp: %q", nav.appURL)
	}
}

func TestOpenAppWithFallback(t *testing.T) {
	// Page stays in the foreground: the app never took over, so the web URL
	// opens after the timeout.
	nav := &fakeNavigator{foreground: true}
	o := NewOpener(nav, 5*time.Millisecond)

	if got := o.Open(testLink, true); got != OutcomeApp {
		t.Errorf("Open() = %q; want %q", got, OutcomeApp)
	}
	if nav.appURL != testLink.AppURL {
		t.Errorf("app URL = %q; want %q", nav.appURL, testLink.AppURL)
	}

	deadline := time.Now().Add(time.Second)
	for len(nav.webOpens()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if opens := nav.webOpens(); len(opens) != 1 || opens[0] != testLink.WebURL {
		t.Errorf("fallback web opens = %v", opens)
	}
}

func TestOpenAppNoFallbackWhenBackgrounded(t *testing.T) {
	// App appears to have taken focus: no fallback tab.
	nav := &fakeNavigator{foreground: false}
	o := NewOpener(nav, 2*time.Millisecond)

	o.Open(testLink, true)
	time.Sleep(30 * time.Millisecond)

	if opens := nav.webOpens(); len(opens) != 0 {
		t.Errorf("fallback fired despite backgrounded document: %v", opens)
	}
}

func TestOpenAppOnlyLink(t *testing.T) {
	nav := &fakeNavigator{foreground: true}
	o := NewOpener(nav, 2*time.Millisecond)

	link := ResolvedLink{Provider: ProviderSpotify, AppURL: "spotify:track:sp1"}
	if got := o.Open(link, true); got != OutcomeApp {
		t.Errorf("Open() = %q; want %q", got, OutcomeApp)
	}
	time.Sleep(30 * time.Millisecond)
	if opens := nav.webOpens(); len(opens) != 0 {
		t.Errorf("fallback opened a web tab with no web URL: %v", opens)
	}
}

func TestOpenNoLink(t *testing.T) {
	nav := &fakeNavigator{}
	o := NewOpener(nav, time.Millisecond)

	if got := o.Open(ResolvedLink{Provider: ProviderSoundcloud}, true); got != OutcomeNoLink {
		t.Errorf("Open() = %q; want %q", got, OutcomeNoLink)
	}
	if len(nav.notices) != 1 {
		t.Errorf("notices = %v; want one user-facing notice", nav.notices)
	}
}

func TestDefaultChoiceEndToEnd(t *testing.T) {
	// No connected providers, no stored preference, track with both links:
	// the policy picks youtube and the opener opens its web URL in a tab.
	choice := ChooseDefault("", nil)
	if choice != ProviderYoutube {
		t.Fatalf("ChooseDefault() = %q; want youtube", choice)
	}

	link, ok := func() (ResolvedLink, bool) {
		for _, l := range []ResolvedLink{
			{Provider: ProviderSpotify, WebURL: "https://open.spotify.com/track/sp1"},
			testLink,
		} {
			if l.Provider == choice {
				return l, true
			}
		}
		return ResolvedLink{}, false
	}()
	if !ok {
		t.Fatal("no resolved link for the chosen provider")
	}

	nav := &fakeNavigator{}
	if got := NewOpener(nav, time.Millisecond).Open(link, false); got != OutcomeWeb {
		t.Errorf("Open() = %q; want %q", got, OutcomeWeb)
	}
	if opens := nav.webOpens(); len(opens) != 1 || opens[0] != testLink.WebURL {
		t.Errorf("web opens = %v", opens)
	}
}
