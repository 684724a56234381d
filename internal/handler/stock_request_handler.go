package handler

import (
	"net/http"
	"strconv"

	"github.com/bitfantasy/nimo-ims/internal/service"
	"github.com/gin-gonic/gin"
)

type StockRequestHandler struct {
	svc *service.StockRequestService
}

func NewStockRequestHandler(svc *service.StockRequestService) *StockRequestHandler {
	return &StockRequestHandler{svc: svc}
}

func (h *StockRequestHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	userID := c.GetString("user_id")
	items, total, err := h.svc.List(c.Request.Context(), userID, c.Query("status"), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": items, "total": total, "page": page, "size": size}})
}

func (h *StockRequestHandler) Get(c *gin.Context) {
	userID := c.GetString("user_id")
	sr, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sr})
}

func (h *StockRequestHandler) Create(c *gin.Context) {
	var req service.CreateStockRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	userID := c.GetString("user_id")
	sr, err := h.svc.Create(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sr})
}

func (h *StockRequestHandler) SetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	userID := c.GetString("user_id")
	sr, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": sr})
}
