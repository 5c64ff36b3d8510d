package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/infra/preference"
)

type memoryPrefRepo struct {
	stored *domain.Preferences
}

func (r *memoryPrefRepo) Get(_ context.Context) (domain.Preferences, error) {
	if r.stored == nil {
		return domain.Preferences{}, domain.ErrPreferencesNotFound
	}
	return *r.stored, nil
}

func (r *memoryPrefRepo) Save(_ context.Context, prefs domain.Preferences) error {
	r.stored = &prefs
	return nil
}

func setupPreferenceRouter(t *testing.T) (*gin.Engine, *preference.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := preference.NewStore(&memoryPrefRepo{})
	h := NewPreferenceHandler(store)

	router := gin.New()
	router.GET("/preferences", h.HandleGet)
	router.PUT("/preferences", h.HandleUpdate)
	return router, store
}

func TestHandleGetPreferences_Defaults(t *testing.T) {
	router, _ := setupPreferenceRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/preferences", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}

	var dto preferencesDTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !dto.Enabled {
		t.Error("expected defaults to be enabled")
	}
	if len(dto.TypePreferences) == 0 {
		t.Error("expected per-type preferences in defaults")
	}
}

func TestHandleUpdatePreferences(t *testing.T) {
	router, store := setupPreferenceRouter(t)

	body := `{
		"enabled": true,
		"sound": false,
		"do_not_disturb": {"start_hour": 22, "end_hour": 6},
		"type_preferences": {"VISIT": {"enabled": true, "advance_minutes": 30}}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/preferences", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	snap := store.Snapshot()
	if snap.Sound {
		t.Error("expected sound to be disabled")
	}
	if !snap.InDoNotDisturbPeriod(time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)) {
		t.Error("expected 23:00 inside the do-not-disturb window")
	}
	if snap.AdvanceMinutes(domain.TypeVisit) != 30 {
		t.Errorf("visit advance minutes: got %d, want 30", snap.AdvanceMinutes(domain.TypeVisit))
	}
}

func TestHandleUpdatePreferences_UnknownType(t *testing.T) {
	router, _ := setupPreferenceRouter(t)

	body := `{"enabled": true, "sound": true, "type_preferences": {"GROOMING": {"enabled": true}}}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/preferences", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", w.Code, http.StatusBadRequest)
	}
}
