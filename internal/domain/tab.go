package domain

import "strings"

// Tab is a snapshot of a live browser tab.
// It is never persisted; the browser owns tab state and reuses tab ids
// after close, so a Tab is only trustworthy immediately after a fetch.
type Tab struct {
	// ID is the opaque tab handle assigned by the browser.
	ID int

	// WindowID is the window the tab currently lives in.
	WindowID int

	// Title is the current page title (may be empty while loading).
	Title string

	// URL is the current page URL.
	URL string

	// Pinned tabs are never archived.
	Pinned bool

	// Active marks the tab the user is currently looking at in its window.
	Active bool
}

// DefaultRestrictedPrefixes are URL prefixes that can never be usefully
// reopened from a bookmark (and some are unreadable to an extension anyway).
var DefaultRestrictedPrefixes = []string{
	"chrome://",
	"chrome-extension://",
	"about:",
}

// Eligible reports whether a tab may carry a countdown: background and
// unpinned. Restricted URLs are checked separately at archival time because
// a tab can navigate while its countdown runs.
func Eligible(t *Tab) bool {
	if t == nil {
		return false
	}
	return !t.Pinned && !t.Active
}

// RestrictedURL reports whether url starts with any of the given prefixes.
func RestrictedURL(url string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(url, p) {
			return true
		}
	}
	return false
}

// BookmarkTitle picks the title for an archived tab: the user's custom name
// if set, else the page title, else the URL. The result is non-empty as long
// as the URL is.
func BookmarkTitle(customName, tabTitle, url string) string {
	if customName != "" {
		return customName
	}
	if tabTitle != "" {
		return tabTitle
	}
	return url
}

// Policy decides which URLs may never be archived.
type Policy struct {
	// RestrictedPrefixes blocks URLs by prefix.
	RestrictedPrefixes []string

	// SkipURLContains blocks URLs containing any of these substrings.
	SkipURLContains []string
}

// DefaultPolicy blocks only the built-in restricted prefixes.
func DefaultPolicy() Policy {
	return Policy{RestrictedPrefixes: DefaultRestrictedPrefixes}
}

// Blocks reports whether the URL must never be archived. An empty URL is
// always blocked: there is nothing to bookmark.
func (p Policy) Blocks(url string) bool {
	if url == "" {
		return true
	}
	if RestrictedURL(url, p.RestrictedPrefixes) {
		return true
	}
	for _, sub := range p.SkipURLContains {
		if sub != "" && strings.Contains(url, sub) {
			return true
		}
	}
	return false
}
