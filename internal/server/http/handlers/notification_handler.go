package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/vinylstore/internal/server/http/dto"
)

// NotificationHandler serves the reflected notification list.
type NotificationHandler struct {
	facade NotificationFacade
	logger *slog.Logger
}

func NewNotificationHandler(facade NotificationFacade, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{facade: facade, logger: logger}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	state, err := h.facade.Notifications(c.Request.Context(), CurrentSession(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toNotificationsResponse(state))
}

// MarkRead handles POST /api/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	state, err := h.facade.MarkNotificationRead(c.Request.Context(), CurrentSession(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toNotificationsResponse(state))
}

// Target handles GET /api/notifications/:id/target.
func (h *NotificationHandler) Target(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	target, err := h.facade.NotificationTarget(c.Request.Context(), CurrentSession(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.TargetResponse{Screen: string(target.Screen), OrderID: target.OrderID})
}
