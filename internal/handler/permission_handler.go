package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawkeeper/notification-scheduling/internal/domain"
)

type PermissionHandler struct {
	gate domain.PermissionGate
}

func NewPermissionHandler(gate domain.PermissionGate) *PermissionHandler {
	return &PermissionHandler{
		gate: gate,
	}
}

type permissionReport struct {
	Status string `json:"status" binding:"required"`
}

func (h *PermissionHandler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()

	status, err := h.gate.Status(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read permission status",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to read permission status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status.String()})
}

func (h *PermissionHandler) HandleReport(c *gin.Context) {
	ctx := c.Request.Context()

	var req permissionReport
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	status := domain.PermissionStatus(req.Status)
	if !status.IsValid() {
		respondError(c, http.StatusBadRequest, "validation_error", "unknown permission status: "+req.Status)
		return
	}

	if err := h.gate.Report(ctx, status); err != nil {
		slog.ErrorContext(ctx, "failed to store permission status",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to store permission status")
		return
	}

	slog.InfoContext(ctx, "permission status reported",
		slog.String("status", status.String()),
	)

	c.JSON(http.StatusOK, gin.H{"status": status.String()})
}
