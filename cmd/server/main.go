package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitfantasy/nimo-ims/internal/config"
	"github.com/bitfantasy/nimo-ims/internal/entity"
	"github.com/bitfantasy/nimo-ims/internal/handler"
	"github.com/bitfantasy/nimo-ims/internal/middleware"
	"github.com/bitfantasy/nimo-ims/internal/repository"
	"github.com/bitfantasy/nimo-ims/internal/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting nimo-ims service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate tables", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化MinIO（未配置时文档存储不可用，其余功能不受影响）
	store := initMinIO(cfg.MinIO, zapLogger)

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, store, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, services, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func initMinIO(cfg config.MinIOConfig, zapLogger *zap.Logger) *minio.Client {
	if cfg.Endpoint == "" {
		zapLogger.Warn("MinIO endpoint not configured, document storage disabled")
		return nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		zapLogger.Warn("Failed to init MinIO client, document storage disabled", zap.Error(err))
		return nil
	}
	return client
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, svc *service.Services, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "nimo-ims"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "nimo-ims"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "nimo-ims",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	requireAdmin := middleware.RequireAdmin(func(c *gin.Context, userID string) (bool, error) {
		return svc.Access.IsAdmin(c.Request.Context(), userID)
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证 (无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的接口
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 部门
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Reference.ListDepartments)
				departments.POST("", requireAdmin, h.Reference.CreateDepartment)
				departments.PUT("/:id", requireAdmin, h.Reference.UpdateDepartment)
				departments.DELETE("/:id", requireAdmin, h.Reference.DeleteDepartment)
			}

			// 位置
			locations := authorized.Group("/locations")
			{
				locations.GET("", h.Reference.ListLocations)
				locations.POST("", requireAdmin, h.Reference.CreateLocation)
				locations.PUT("/:id", requireAdmin, h.Reference.UpdateLocation)
				locations.DELETE("/:id", requireAdmin, h.Reference.DeleteLocation)
			}

			// 类别
			categories := authorized.Group("/categories")
			{
				categories.GET("", h.Reference.ListCategories)
				categories.POST("", requireAdmin, h.Reference.CreateCategory)
				categories.PUT("/:id", requireAdmin, h.Reference.UpdateCategory)
				categories.DELETE("/:id", requireAdmin, h.Reference.DeleteCategory)
			}

			// 物品
			items := authorized.Group("/items")
			{
				items.GET("", h.Item.List)
				items.GET("/:id", h.Item.Get)
				items.POST("", requireAdmin, h.Item.Create)
				items.PUT("/:id", requireAdmin, h.Item.Update)
				items.DELETE("/:id", requireAdmin, h.Item.Delete)
			}

			// 采购
			procurements := authorized.Group("/procurements")
			{
				procurements.GET("", h.Procurement.List)
				procurements.GET("/:id", h.Procurement.Get)
				procurements.POST("", requireAdmin, h.Procurement.Record)
				procurements.POST("/:id/document", requireAdmin, h.Procurement.AttachDocument)
				procurements.GET("/:id/document", h.Procurement.DownloadDocument)
			}

			// 库存
			inventory := authorized.Group("/inventory")
			{
				inventory.GET("", h.Inventory.List)
				inventory.GET("/items/:itemId", h.Inventory.GetByItem)
				inventory.GET("/export", h.Inventory.Export)
			}

			// 领用申请
			stockRequests := authorized.Group("/stock-requests")
			{
				stockRequests.GET("", h.StockRequest.List)
				stockRequests.GET("/:id", h.StockRequest.Get)
				stockRequests.POST("", h.StockRequest.Create)
				stockRequests.POST("/:id/status", requireAdmin, h.StockRequest.SetStatus)
			}

			// 通知
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.POST("/:id/read", h.Notification.MarkRead)
				notifications.POST("/read-all", h.Notification.MarkAllRead)
			}
		}
	}
}
