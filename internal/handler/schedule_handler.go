package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
	"github.com/pawkeeper/notification-scheduling/internal/service/schedule"
)

type ScheduleHandler struct {
	scheduleService *schedule.Service
}

func NewScheduleHandler(scheduleService *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

type scheduleRequest struct {
	Title        string    `json:"title" binding:"required"`
	Body         string    `json:"body"`
	TargetTime   time.Time `json:"target_time" binding:"required"`
	ReminderID   string    `json:"reminder_id"`
	ReminderType string    `json:"reminder_type"`
	PetID        string    `json:"pet_id"`
	Frequency    string    `json:"frequency"`
}

type scheduleRecurringRequest struct {
	Title        string `json:"title" binding:"required"`
	Body         string `json:"body"`
	Frequency    string `json:"frequency" binding:"required"`
	Hour         int    `json:"hour" binding:"min=0,max=23"`
	Minute       int    `json:"minute" binding:"min=0,max=59"`
	ReminderID   string `json:"reminder_id"`
	ReminderType string `json:"reminder_type"`
	PetID        string `json:"pet_id"`
}

type scheduleResponse struct {
	Handle     string     `json:"handle,omitempty"`
	Scheduled  bool       `json:"scheduled"`
	TargetTime *time.Time `json:"target_time,omitempty"`
	NotifyTime *time.Time `json:"notify_time,omitempty"`
	SkipReason string     `json:"skip_reason,omitempty"`
}

func toScheduleResponse(result *schedule.Result) scheduleResponse {
	resp := scheduleResponse{
		Handle:     result.Handle,
		Scheduled:  result.Scheduled,
		SkipReason: result.SkipReason,
	}
	if !result.TargetTime.IsZero() {
		t := result.TargetTime
		resp.TargetTime = &t
	}
	if !result.NotifyTime.IsZero() {
		t := result.NotifyTime
		resp.NotifyTime = &t
	}
	return resp
}

func (h *ScheduleHandler) HandleSchedule(c *gin.Context) {
	ctx := c.Request.Context()

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "schedule request binding failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	result := h.scheduleService.Schedule(ctx, &schedule.Request{
		Title:        req.Title,
		Body:         req.Body,
		TargetTime:   req.TargetTime,
		ReminderID:   req.ReminderID,
		ReminderType: domain.ReminderType(req.ReminderType),
		PetID:        req.PetID,
		Frequency:    domain.Frequency(req.Frequency),
	})

	c.JSON(http.StatusOK, toScheduleResponse(result))
}

func (h *ScheduleHandler) HandleScheduleRecurring(c *gin.Context) {
	ctx := c.Request.Context()

	var req scheduleRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "recurring schedule request binding failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	freq := domain.Frequency(req.Frequency)
	if !freq.IsValid() {
		respondError(c, http.StatusBadRequest, "validation_error", "unknown frequency")
		return
	}

	result := h.scheduleService.ScheduleRecurring(ctx, &schedule.RecurringRequest{
		Title:        req.Title,
		Body:         req.Body,
		Frequency:    freq,
		Hour:         req.Hour,
		Minute:       req.Minute,
		ReminderID:   req.ReminderID,
		ReminderType: domain.ReminderType(req.ReminderType),
		PetID:        req.PetID,
	})

	c.JSON(http.StatusOK, toScheduleResponse(result))
}

func (h *ScheduleHandler) HandleCancel(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.scheduleService.Cancel(ctx, id); err != nil {
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to cancel notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func (h *ScheduleHandler) HandleCancelForReminder(c *gin.Context) {
	ctx := c.Request.Context()
	reminderID := c.Param("reminderId")

	count, err := h.scheduleService.CancelAllForReminder(ctx, reminderID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to cancel notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled_count": count})
}

func (h *ScheduleHandler) HandleCancelAll(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.scheduleService.CancelAll(ctx); err != nil {
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to cancel notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

type pendingNotificationResponse struct {
	ID             string    `json:"id"`
	ReminderID     string    `json:"reminder_id"`
	ReminderType   string    `json:"reminder_type,omitempty"`
	PetID          string    `json:"pet_id,omitempty"`
	Frequency      string    `json:"frequency,omitempty"`
	RecurrenceRule string    `json:"recurrence_rule,omitempty"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	TargetTime     time.Time `json:"target_time"`
	FireTime       time.Time `json:"fire_time"`
}

func (h *ScheduleHandler) HandleListPending(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := h.scheduleService.ListPending(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list pending notifications",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to list pending notifications")
		return
	}

	resp := make([]pendingNotificationResponse, 0, len(pending))
	for _, p := range pending {
		resp = append(resp, pendingNotificationResponse{
			ID:             p.ID,
			ReminderID:     p.Payload.ReminderID,
			ReminderType:   string(p.Payload.ReminderType),
			PetID:          p.Payload.PetID,
			Frequency:      string(p.Payload.Frequency),
			RecurrenceRule: p.Payload.Frequency.RRule(),
			Title:          p.Payload.Title,
			Body:           p.Payload.Body,
			TargetTime:     p.Payload.TargetTime,
			FireTime:       p.FireTime,
		})
	}

	c.JSON(http.StatusOK, gin.H{"notifications": resp, "count": len(resp)})
}

func (h *ScheduleHandler) HandleStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.scheduleService.PendingStats(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to compute pending stats",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

type badgeRequest struct {
	Count *int `json:"count" binding:"required,min=0"`
}

func (h *ScheduleHandler) HandleGetBadge(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.scheduleService.Badge(ctx)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to read badge")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *ScheduleHandler) HandleSetBadge(c *gin.Context) {
	ctx := c.Request.Context()

	var req badgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.scheduleService.SetBadge(ctx, *req.Count); err != nil {
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to set badge")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": *req.Count})
}

func (h *ScheduleHandler) HandleClearBadge(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.scheduleService.ClearBadge(ctx); err != nil {
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to clear badge")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": 0})
}
