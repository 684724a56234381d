package handler

import (
	"net/http"
	"strconv"

	"github.com/bitfantasy/nimo-ims/internal/service"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List 只返回当前用户自己的通知
func (h *NotificationHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	userID := c.GetString("user_id")
	items, total, unread, err := h.svc.ListByUser(c.Request.Context(), userID, page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"items":  items,
		"total":  total,
		"unread": unread,
		"page":   page,
		"size":   size,
	}})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")
	n, err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": n})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetString("user_id")
	if err := h.svc.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "all notifications marked as read"})
}
