package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/infra/preference"
)

type PreferenceHandler struct {
	store *preference.Store
}

func NewPreferenceHandler(store *preference.Store) *PreferenceHandler {
	return &PreferenceHandler{
		store: store,
	}
}

type typePreferenceDTO struct {
	Enabled        bool `json:"enabled"`
	AdvanceMinutes int  `json:"advance_minutes"`
}

type doNotDisturbDTO struct {
	StartHour int `json:"start_hour" binding:"min=0,max=23"`
	EndHour   int `json:"end_hour" binding:"min=0,max=23"`
}

type preferencesDTO struct {
	Enabled         bool                         `json:"enabled"`
	Sound           bool                         `json:"sound"`
	DoNotDisturb    doNotDisturbDTO              `json:"do_not_disturb"`
	TypePreferences map[string]typePreferenceDTO `json:"type_preferences"`
}

func toPreferencesDTO(prefs domain.Preferences) preferencesDTO {
	types := make(map[string]typePreferenceDTO, len(prefs.TypePreferences))
	for t, tp := range prefs.TypePreferences {
		types[string(t)] = typePreferenceDTO{
			Enabled:        tp.Enabled,
			AdvanceMinutes: tp.AdvanceMinutes,
		}
	}

	return preferencesDTO{
		Enabled: prefs.Enabled,
		Sound:   prefs.Sound,
		DoNotDisturb: doNotDisturbDTO{
			StartHour: prefs.DoNotDisturb.StartHour,
			EndHour:   prefs.DoNotDisturb.EndHour,
		},
		TypePreferences: types,
	}
}

func fromPreferencesDTO(dto preferencesDTO) domain.Preferences {
	types := make(map[domain.ReminderType]domain.TypePreference, len(dto.TypePreferences))
	for t, tp := range dto.TypePreferences {
		types[domain.ReminderType(t)] = domain.TypePreference{
			Enabled:        tp.Enabled,
			AdvanceMinutes: tp.AdvanceMinutes,
		}
	}

	return domain.Preferences{
		Enabled: dto.Enabled,
		Sound:   dto.Sound,
		DoNotDisturb: domain.DoNotDisturbWindow{
			StartHour: dto.DoNotDisturb.StartHour,
			EndHour:   dto.DoNotDisturb.EndHour,
		},
		TypePreferences: types,
	}
}

func (h *PreferenceHandler) HandleGet(c *gin.Context) {
	c.JSON(http.StatusOK, toPreferencesDTO(h.store.Snapshot()))
}

func (h *PreferenceHandler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	var dto preferencesDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		slog.WarnContext(ctx, "preference update binding failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	for t := range dto.TypePreferences {
		if !domain.ReminderType(t).IsValid() {
			respondError(c, http.StatusBadRequest, "validation_error", "unknown reminder type: "+t)
			return
		}
	}

	if err := h.store.Update(ctx, fromPreferencesDTO(dto)); err != nil {
		slog.ErrorContext(ctx, "failed to update preferences",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to update preferences")
		return
	}

	c.JSON(http.StatusOK, toPreferencesDTO(h.store.Snapshot()))
}
