package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_ims"
	TestBucket = "nimo-ims-test"
	JWTSecret  = "nimo-ims-jwt-secret-key-2024"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// loadEnv loads .env from the project root
func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
// Tests are skipped when no database is reachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "nimo")
	password := getEnv("DB_PASSWORD", "nimo123")
	dbname := getEnv("DB_NAME", "nimo_ims")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// Create a unique test schema for isolation
	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	// First: create schema using a temporary connection
	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("Skipping: test database unreachable: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// Second: open connection with search_path in DSN so ALL pooled connections use test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Skipf("Skipping: test database unreachable: %v", err)
	}

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	// Cleanup on test completion
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		// Reconnect to drop the schema
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupMinIO connects to a local MinIO and ensures the test bucket exists.
// Tests are skipped when no object store is reachable.
func SetupMinIO(t *testing.T) *minio.Client {
	t.Helper()
	loadEnv()

	endpoint := getEnv("MINIO_ENDPOINT", "127.0.0.1:9000")
	accessKey := getEnv("MINIO_ACCESS_KEY", "minioadmin")
	secretKey := getEnv("MINIO_SECRET_KEY", "minioadmin")

	client, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
	})
	if err != nil {
		t.Skipf("Skipping: minio client init failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, TestBucket)
	if err != nil {
		t.Skipf("Skipping: object store unreachable: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, TestBucket, minio.MakeBucketOptions{}); err != nil {
			t.Skipf("Skipping: cannot create test bucket: %v", err)
		}
	}
	return client
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid access token for testing
func GenerateTestToken(userID, username string) string {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "nimo-ims",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			ID:        fmt.Sprintf("test-jti-%d", now.UnixNano()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedUser creates a test user in the database
func SeedUser(t *testing.T, db *gorm.DB, id, username string, isStaff bool) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:           id,
		Username:     username,
		Name:         username,
		Email:        username + "@test.com",
		PasswordHash: "$2a$10$test-hash-not-a-real-password-hash",
		IsStaff:      isStaff,
		Status:       "active",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
	return user
}

// SeedAdminGroupMember creates a regular user and puts them into the Admin group
func SeedAdminGroupMember(t *testing.T, db *gorm.DB, id, username string) *entity.User {
	t.Helper()
	user := SeedUser(t, db, id, username, false)
	var group entity.Group
	if err := db.Where("name = ?", entity.AdminGroupName).First(&group).Error; err != nil {
		group = entity.Group{ID: "grp-admin", Name: entity.AdminGroupName}
		if err := db.Create(&group).Error; err != nil {
			t.Fatalf("Failed to seed admin group: %v", err)
		}
	}
	if err := db.Model(user).Association("Groups").Append(&group); err != nil {
		t.Fatalf("Failed to add user to admin group: %v", err)
	}
	return user
}

// SeedItem creates a test item in the database
func SeedItem(t *testing.T, db *gorm.DB, id, name string) *entity.Item {
	t.Helper()
	item := &entity.Item{
		ID:          id,
		Name:        name,
		Description: "seeded test item",
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed test item: %v", err)
	}
	return item
}

// SeedInventory creates an inventory row for an item
func SeedInventory(t *testing.T, db *gorm.DB, itemID string, quantity int) *entity.Inventory {
	t.Helper()
	inv := &entity.Inventory{
		ID:       "inv-" + itemID,
		ItemID:   itemID,
		Quantity: quantity,
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("Failed to seed inventory: %v", err)
	}
	return inv
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
