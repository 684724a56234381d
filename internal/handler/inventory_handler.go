package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bitfantasy/nimo-ims/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	items, total, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": items, "total": total, "page": page, "size": size}})
}

func (h *InventoryHandler) GetByItem(c *gin.Context) {
	inv, err := h.svc.GetByItem(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": inv})
}

func (h *InventoryHandler) Export(c *gin.Context) {
	f, err := h.svc.ExportXLSX(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
