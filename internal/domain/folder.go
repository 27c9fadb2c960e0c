package domain

import "time"

// FolderRef identifies a bookmark folder in the browser's bookmark tree.
type FolderRef struct {
	ID       string
	Title    string
	ParentID string
}

// BookmarkEntry is one archived tab: a link child of a day folder.
// Immutable once created.
type BookmarkEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// FolderExport groups the archived entries of one day folder, in the shape
// the export protocol returns to the UI.
type FolderExport struct {
	FolderName string          `json:"folderName"`
	Bookmarks  []BookmarkEntry `json:"bookmarks"`
}

// DayFolderTitle returns the canonical title for the day folder holding
// t's archived tabs: ISO 8601 date ("2026-01-27"), sortable and
// locale-independent. The day boundary is t's location, i.e. the host
// clock's local midnight.
func DayFolderTitle(t time.Time) string {
	return t.Format("2006-01-02")
}
