package handler

import (
	"errors"
	"net/http"

	"github.com/bitfantasy/nimo-ims/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers HTTP处理器集合
type Handlers struct {
	Auth         *AuthHandler
	Reference    *ReferenceHandler
	Item         *ItemHandler
	Procurement  *ProcurementHandler
	Inventory    *InventoryHandler
	StockRequest *StockRequestHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth, services.Access),
		Reference:    NewReferenceHandler(services.Reference),
		Item:         NewItemHandler(services.Item),
		Procurement:  NewProcurementHandler(services.Procurement),
		Inventory:    NewInventoryHandler(services.Inventory),
		StockRequest: NewStockRequestHandler(services.StockRequest),
		Notification: NewNotificationHandler(services.Notification),
	}
}

// respondError 业务错误到 HTTP 状态的统一映射
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrItemNotTracked):
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"code": 10009, "message": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"code": 40302, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}
