package handlers

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mdotstrange/TabHoardersFriend/internal/domain"
	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/deps"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
)

const (
	actionHoardAll = "hoardAllTabs"
	actionExport   = "exportHoard"
)

type messageRequest struct {
	Action string `json:"action"`
}

func (m messageRequest) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Action, validation.Required, validation.In(actionHoardAll, actionExport)),
	)
}

type hoardAllResponse struct {
	Count int `json:"count"`
}

type exportResponse struct {
	Success bool                  `json:"success"`
	Data    []domain.FolderExport `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Message handles the popup's action protocol on a single endpoint.
func Message(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		ctx := r.Context()
		switch req.Action {
		case actionHoardAll:
			count := d.Router.HoardAll(ctx)
			d.Logger.Info("hoard all requested",
				logger.Int("archived", count))
			writeJSON(w, http.StatusOK, hoardAllResponse{Count: count})

		case actionExport:
			data, err := d.Archiver.Export(ctx)
			if err != nil {
				// Protocol-level failure, not a transport failure: the
				// popup renders the error field.
				writeJSON(w, http.StatusOK, exportResponse{Success: false, Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, exportResponse{Success: true, Data: data})
		}
	}
}
