// Package export renders archived bookmarks as CSV, one file per day folder.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
)

const header = "Title,URL"

// GenerateCSV renders one day folder's bookmarks. Both fields are always
// double-quoted with internal quotes doubled, so the output is stable
// regardless of commas or quotes in titles.
func GenerateCSV(bookmarks []domain.BookmarkEntry) string {
	lines := make([]string, 0, len(bookmarks)+1)
	lines = append(lines, header)
	for _, b := range bookmarks {
		lines = append(lines, quote(b.Title)+","+quote(b.URL))
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteFiles writes one "<folderName>.csv" per day folder into dir,
// creating dir if needed. Returns the paths written.
func WriteFiles(dir string, folders []domain.FolderExport) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	paths := make([]string, 0, len(folders))
	for _, folder := range folders {
		path := filepath.Join(dir, folder.FolderName+".csv")
		content := GenerateCSV(folder.Bookmarks)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
