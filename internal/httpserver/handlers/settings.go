package handlers

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mdotstrange/TabHoardersFriend/internal/httpserver/deps"
	"github.com/mdotstrange/TabHoardersFriend/internal/logger"
	"github.com/mdotstrange/TabHoardersFriend/internal/timer"
)

type timerSettingBody struct {
	Minutes int `json:"minutes"`
}

func (b timerSettingBody) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Minutes, validation.Required, validation.Min(1), validation.Max(1440)),
	)
}

// GetTimerSetting returns the effective countdown duration. An unset store
// reads as the default so the popup never shows 0.
func GetTimerSetting(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minutes, err := d.Settings.TimerMinutes(r.Context())
		if err != nil {
			d.Logger.Error("failed to read timer setting", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to read timer setting")
			return
		}
		if minutes <= 0 {
			minutes = timer.DefaultMinutes
		}
		writeJSON(w, http.StatusOK, timerSettingBody{Minutes: minutes})
	}
}

// PutTimerSetting stores a new countdown duration. Countdowns already armed
// keep their original deadline; the new value applies from the next start.
func PutTimerSetting(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body timerSettingBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := body.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := d.Settings.SetTimerMinutes(r.Context(), body.Minutes); err != nil {
			d.Logger.Error("failed to store timer setting", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to store timer setting")
			return
		}

		d.Logger.Info("timer setting updated", logger.Int("minutes", body.Minutes))
		writeJSON(w, http.StatusOK, timerSettingBody{Minutes: body.Minutes})
	}
}
