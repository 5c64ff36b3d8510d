package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/infra/dispatch"
	"github.com/pawkeeper/notification-scheduling/internal/service/listener"
)

// EventHandler receives lifecycle events reported by the client, currently
// only notification taps.
type EventHandler struct {
	dispatcher *dispatch.Dispatcher
}

func NewEventHandler(dispatcher *dispatch.Dispatcher) *EventHandler {
	return &EventHandler{
		dispatcher: dispatcher,
	}
}

type tapEventRequest struct {
	NotificationID string `json:"notification_id" binding:"required"`
	ReminderID     string `json:"reminder_id"`
	ReminderType   string `json:"reminder_type"`
	PetID          string `json:"pet_id"`
}

func (h *EventHandler) HandleTap(c *gin.Context) {
	ctx := c.Request.Context()

	var req tapEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "tap event binding failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	h.dispatcher.EmitTapped(listener.Event{
		NotificationID: req.NotificationID,
		Payload: domain.Payload{
			ReminderID:   req.ReminderID,
			ReminderType: domain.ReminderType(req.ReminderType),
			PetID:        req.PetID,
		},
		At: time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{"accepted": true})
}
