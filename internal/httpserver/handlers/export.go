package handlers

import (
	"net/http"

	"github.com/mdotstrange/TabHoardersFriend/internal/export"
	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/deps"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
)

type exportFilesResponse struct {
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// ExportFiles renders the archive to CSV files on disk, one per day folder.
func ExportFiles(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders, err := d.Archiver.Export(r.Context())
		if err != nil {
			writeJSON(w, http.StatusOK, exportFilesResponse{Success: false, Error: err.Error()})
			return
		}

		paths, err := export.WriteFiles(d.ExportDir, folders)
		if err != nil {
			d.Logger.Error("failed to write export files", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to write export files")
			return
		}

		d.Logger.Info("export files written",
			logger.Int("files", len(paths)),
			logger.String("dir", d.ExportDir))
		writeJSON(w, http.StatusOK, exportFilesResponse{Success: true, Files: paths})
	}
}
