package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/bitfantasy/nimo-ims/internal/service"
	"github.com/gin-gonic/gin"
)

type ProcurementHandler struct {
	svc *service.ProcurementService
}

func NewProcurementHandler(svc *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{svc: svc}
}

func (h *ProcurementHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.ProcurementListParams{
		ItemID: c.Query("item_id"),
		Type:   c.Query("procurement_type"),
		Page:   page,
		Size:   size,
	}
	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": items, "total": total, "page": page, "size": size}})
}

func (h *ProcurementHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"procurement": p,
		"total_price": p.TotalPrice(),
	}})
}

func (h *ProcurementHandler) Record(c *gin.Context) {
	var req service.RecordProcurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	userID := c.GetString("user_id")
	p, err := h.svc.Record(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{
		"procurement": p,
		"total_price": p.TotalPrice(),
	}})
}

func (h *ProcurementHandler) AttachDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	defer src.Close()

	p, err := h.svc.AttachDocument(c.Request.Context(), c.Param("id"),
		file.Filename, file.Header.Get("Content-Type"), src, file.Size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": p})
}

func (h *ProcurementHandler) DownloadDocument(c *gin.Context) {
	obj, filename, err := h.svc.DownloadDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer obj.Close()

	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Type", "application/octet-stream")
	io.Copy(c.Writer, obj)
}
