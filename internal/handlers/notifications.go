package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.pushrelay/internal/dispatch"
	sendmodels "io.winapps.pushrelay/internal/models/send_notification"
)

type NotificationsHandler struct {
	dispatcher *dispatch.Service
	logger     *zap.SugaredLogger
}

// NewNotificationsHandler creates a new notifications handler
func NewNotificationsHandler(dispatcher *dispatch.Service, logger *zap.SugaredLogger) *NotificationsHandler {
	return &NotificationsHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Send handles POST /api/notifications/send.
func (h *NotificationsHandler) Send(c *gin.Context) {
	var req sendmodels.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid request format"})
		return
	}

	result, err := h.dispatcher.Send(c.Request.Context(), dispatch.Request{
		UserID: req.UserID,
		Token:  req.Token,
		Title:  req.Title,
		Body:   req.Body,
		Data:   req.Data,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Notification sent successfully", sendmodels.Response{
		Title:   result.Title,
		Body:    result.Body,
		SentAt:  result.SentAt.Format(time.RFC3339),
		Receipt: result.Receipt,
	})
}
