package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/deps"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
)

type tabNameBody struct {
	Name string `json:"name"`
}

func (b tabNameBody) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 512)),
	)
}

func tabIDParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "tabID"))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// ListTabNames returns the whole tabID -> custom name map.
func ListTabNames(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := d.AllNames.All(r.Context())
		if err != nil {
			d.Logger.Error("failed to list tab names", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list tab names")
			return
		}
		writeJSON(w, http.StatusOK, names)
	}
}

func GetTabName(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tabID, ok := tabIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid tab id")
			return
		}

		name, err := d.Names.Get(r.Context(), tabID)
		if err != nil {
			d.Logger.Error("failed to read tab name", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read tab name")
			return
		}
		if name == "" {
			writeError(w, http.StatusNotFound, "no custom name for tab")
			return
		}
		writeJSON(w, http.StatusOK, tabNameBody{Name: name})
	}
}

func PutTabName(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tabID, ok := tabIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid tab id")
			return
		}

		var body tabNameBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := body.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := d.Names.Set(r.Context(), tabID, body.Name); err != nil {
			d.Logger.Error("failed to store tab name", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to store tab name")
			return
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func DeleteTabName(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tabID, ok := tabIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid tab id")
			return
		}

		if err := d.Names.Delete(r.Context(), tabID); err != nil {
			d.Logger.Error("failed to delete tab name", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete tab name")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
