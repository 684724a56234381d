package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/nimo-ims/internal/middleware"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/bitfantasy/nimo-ims/internal/service"
	"github.com/bitfantasy/nimo-ims/internal/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupStockRequestRoutes(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	inventory := service.NewInventoryService(repository.NewInventoryRepository(db))
	notify := service.NewNotificationService(repository.NewNotificationRepository(db))
	access := service.NewAccessService(repository.NewUserRepository(db))
	srSvc := service.NewStockRequestService(
		repository.NewStockRequestRepository(db),
		repository.NewItemRepository(db),
		inventory,
		notify,
		access,
		zap.NewNop(),
	)

	srHandler := NewStockRequestHandler(srSvc)
	notifHandler := NewNotificationHandler(notify)

	requireAdmin := middleware.RequireAdmin(func(c *gin.Context, userID string) (bool, error) {
		return access.IsAdmin(c.Request.Context(), userID)
	})

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")

	requests := api.Group("/stock-requests")
	requests.GET("", srHandler.List)
	requests.GET("/:id", srHandler.Get)
	requests.POST("", srHandler.Create)
	requests.POST("/:id/status", requireAdmin, srHandler.SetStatus)

	notifications := api.Group("/notifications")
	notifications.GET("", notifHandler.List)
	notifications.POST("/:id/read", notifHandler.MarkRead)
	notifications.POST("/read-all", notifHandler.MarkAllRead)

	return router, db
}

func TestStockRequestLifecycle(t *testing.T) {
	router, db := setupStockRequestRoutes(t)
	testutil.SeedUser(t, db, "admin-1", "alice", true)
	testutil.SeedUser(t, db, "user-1", "bob", false)
	testutil.SeedItem(t, db, "item-001", "Widget")
	testutil.SeedInventory(t, db, "item-001", 10)

	userToken := testutil.GenerateTestToken("user-1", "bob")
	adminToken := testutil.GenerateTestToken("admin-1", "alice")

	// Requester files a request
	w := testutil.DoRequest(router, "POST", "/api/v1/stock-requests",
		map[string]interface{}{"item_id": "item-001", "quantity": 3, "reason": "bench restock"}, userToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	requestID := data["id"].(string)
	if data["status"] != "pending" {
		t.Errorf("Expected status pending, got %v", data["status"])
	}

	// Admin sees it in their notifications
	w = testutil.DoRequest(router, "GET", "/api/v1/notifications", nil, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	notifData := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if notifData["unread"].(float64) != 1 {
		t.Errorf("Expected 1 unread admin notification, got %v", notifData["unread"])
	}

	// Admin approves
	w = testutil.DoRequest(router, "POST", "/api/v1/stock-requests/"+requestID+"/status",
		map[string]string{"status": "approved"}, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "approved" {
		t.Errorf("Expected status approved, got %v", data["status"])
	}

	// Requester is told about the decision
	w = testutil.DoRequest(router, "GET", "/api/v1/notifications", nil, userToken)
	notifData = testutil.ParseResponse(w)["data"].(map[string]interface{})
	items := notifData["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 requester notification, got %d", len(items))
	}
	msg := items[0].(map[string]interface{})["message"].(string)
	if msg != "Your stock request for 3 Widget has been approved" {
		t.Errorf("Unexpected notification message: %q", msg)
	}
}

func TestStockRequestStatusRequiresAdmin(t *testing.T) {
	router, db := setupStockRequestRoutes(t)
	testutil.SeedUser(t, db, "user-1", "bob", false)
	testutil.SeedItem(t, db, "item-001", "Widget")

	userToken := testutil.GenerateTestToken("user-1", "bob")

	w := testutil.DoRequest(router, "POST", "/api/v1/stock-requests",
		map[string]interface{}{"item_id": "item-001", "quantity": 1, "reason": "restock"}, userToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	requestID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, "POST", "/api/v1/stock-requests/"+requestID+"/status",
		map[string]string{"status": "approved"}, userToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStockRequestApproveInsufficientStock(t *testing.T) {
	router, db := setupStockRequestRoutes(t)
	testutil.SeedUser(t, db, "admin-1", "alice", true)
	testutil.SeedUser(t, db, "user-1", "bob", false)
	testutil.SeedItem(t, db, "item-001", "Widget")
	testutil.SeedInventory(t, db, "item-001", 1)

	userToken := testutil.GenerateTestToken("user-1", "bob")
	adminToken := testutil.GenerateTestToken("admin-1", "alice")

	w := testutil.DoRequest(router, "POST", "/api/v1/stock-requests",
		map[string]interface{}{"item_id": "item-001", "quantity": 5, "reason": "restock"}, userToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	requestID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, "POST", "/api/v1/stock-requests/"+requestID+"/status",
		map[string]string{"status": "approved"}, adminToken)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 10004 {
		t.Errorf("Expected code 10004, got %v", resp["code"])
	}

	// Request stays pending and can be retried later
	w = testutil.DoRequest(router, "GET", "/api/v1/stock-requests/"+requestID, nil, adminToken)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "pending" {
		t.Errorf("Expected status pending, got %v", data["status"])
	}
}

func TestStockRequestTerminalConflict(t *testing.T) {
	router, db := setupStockRequestRoutes(t)
	testutil.SeedUser(t, db, "admin-1", "alice", true)
	testutil.SeedUser(t, db, "user-1", "bob", false)
	testutil.SeedItem(t, db, "item-001", "Widget")

	userToken := testutil.GenerateTestToken("user-1", "bob")
	adminToken := testutil.GenerateTestToken("admin-1", "alice")

	w := testutil.DoRequest(router, "POST", "/api/v1/stock-requests",
		map[string]interface{}{"item_id": "item-001", "quantity": 2, "reason": "restock"}, userToken)
	requestID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, "POST", "/api/v1/stock-requests/"+requestID+"/status",
		map[string]string{"status": "rejected"}, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/stock-requests/"+requestID+"/status",
		map[string]string{"status": "approved"}, adminToken)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStockRequestListUnauthorized(t *testing.T) {
	router, _ := setupStockRequestRoutes(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/stock-requests", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}
