package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"contenta_dev_v1/internal/config"
	"contenta_dev_v1/internal/controller"
	"contenta_dev_v1/internal/middleware"
	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/internal/repository"
	"contenta_dev_v1/internal/router"
	"contenta_dev_v1/internal/service"
	"contenta_dev_v1/internal/task"
	"contenta_dev_v1/pkg/database"
	"contenta_dev_v1/pkg/logger"
	"contenta_dev_v1/pkg/utils"
)

// @title Contenta API
// @version 1.0
// @description 内容生成助手：文案生成、历史记录、导出
// @host localhost:8080
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "启动失败: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. 配置与日志
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// 2. 数据库
	db, err := database.InitDB(database.Options{Driver: cfg.DBDriver, DSN: cfg.DBDSN},
		&model.KVEntry{}, &model.AICallLog{},
	)
	if err != nil {
		return err
	}

	// 3. 依赖
	deps, err := initDependencies(cfg, db, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	// 4. 定时任务
	cleanup := task.NewAICallLogCleanupTask(deps.Repos.AICallLog, cfg.AILogRetentionDays, log)
	if err := cleanup.Start(); err != nil {
		return fmt.Errorf("启动清理任务失败: %w", err)
	}
	defer cleanup.Stop()

	limiter := middleware.NewCooldownLimiter(cfg.GenerateCooldown)
	sweep := task.NewMemorySweepTask(cfg.SweepSpec, log)
	sweep.Register("cooldown", limiter)
	if deps.MemoryCache != nil {
		sweep.Register("kv", deps.MemoryCache)
	}
	if err := sweep.Start(); err != nil {
		return fmt.Errorf("启动内存清扫任务失败: %w", err)
	}
	defer sweep.Stop()

	// 5. 路由
	gin.SetMode(cfg.GinMode)
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, bearer tokens are ignored and all requests use the local user")
	}
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
	r := router.SetupRouter(deps.Controllers, router.Options{
		Logger:           log.Named("http"),
		CORSOrigins:      cfg.CORSOrigins,
		RequireAuth:      cfg.RequireAuth,
		GenerateCooldown: cfg.GenerateCooldown,
		CooldownLimiter:  limiter,
		Metrics:          deps.Metrics.Handler(),
		ExportDir:        deps.ExportDir,
	})

	// 6. 启动服务
	return startServer(r, cfg.ServerPort, log)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	Metrics     *service.Metrics
	MemoryCache *utils.MemoryCache // 仅 memory 后端
	ExportDir   string
}

// Repositories 仓库集合
type Repositories struct {
	KV        repository.KVRepository
	AICallLog repository.AICallLogRepository
}

// Services 服务集合
type Services struct {
	Outputs  *service.OutputService
	Settings *service.SettingsService
	AI       *service.AIService
	Export   *service.ExportService
}

// Close 释放外部连接
func (d *Dependencies) Close() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{DB: db, Metrics: service.NewMetrics()}

	// -------- Repo 层 --------
	kv, err := initKVRepository(cfg, deps, log)
	if err != nil {
		return nil, err
	}
	deps.Repos = &Repositories{
		KV:        kv,
		AICallLog: repository.NewAICallLogRepository(db),
	}

	// -------- 模型 --------
	llm, err := service.NewLLM(&service.AIConfig{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey(),
		Model:    cfg.LLMModel(),
		BaseURL:  cfg.OpenAIBaseURL,
		Timeout:  cfg.GenerateTimeout,
	})
	switch {
	case errors.Is(err, service.ErrProviderNotConfigured):
		log.Warn("LLM API key not set, generation endpoints will return 500", zap.String("provider", cfg.LLMProvider))
	case err != nil:
		return nil, err
	}

	// -------- 存储 --------
	storage := initStorage(cfg, deps, log)

	// -------- 业务服务 --------
	deps.Services = &Services{
		Outputs:  service.NewOutputService(kv, log, deps.Metrics),
		Settings: service.NewSettingsService(kv, log),
		AI:       service.NewAIService(llm, deps.Repos.AICallLog, deps.Metrics, log, cfg.GenerateTimeout),
		Export: service.NewExportService(storage, deps.Metrics, log, service.ExportOptions{
			Prefix:    cfg.ExportPrefix,
			SignedTTL: cfg.StorageSignedTTL,
		}),
	}

	// -------- Controller 层 --------
	svc := deps.Services
	deps.Controllers = &router.Controllers{
		Generate: controller.NewGenerateController(svc.AI, svc.Outputs, svc.Settings, utils.NewHTTPClient(0), log),
		Output:   controller.NewOutputController(svc.Outputs, svc.Export),
		Settings: controller.NewSettingsController(svc.Settings),
		Usage:    controller.NewUsageController(deps.Repos.AICallLog),
	}

	return deps, nil
}

// initKVRepository 按配置选择历史记录的存储后端
func initKVRepository(cfg *config.Config, deps *Dependencies, log *zap.Logger) (repository.KVRepository, error) {
	switch cfg.KVBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("连接 Redis 失败: %w", err)
		}
		deps.Redis = client
		return repository.NewRedisKVRepository(client, cfg.RedisPrefix, log), nil
	case "memory":
		log.Warn("using in-memory KV backend, history is lost on restart", zap.Duration("ttl", cfg.MemoryKVTTL))
		deps.MemoryCache = utils.NewMemoryCache()
		return repository.NewMemoryKVRepositoryWithTTL(deps.MemoryCache, cfg.MemoryKVTTL), nil
	default:
		return repository.NewSQLKVRepository(deps.DB), nil
	}
}

// initStorage 存储初始化失败不阻止启动，publish 接口返回 503
func initStorage(cfg *config.Config, deps *Dependencies, log *zap.Logger) service.StorageProvider {
	storageCfg := &service.StorageConfig{
		Provider:  cfg.StorageProvider,
		Bucket:    cfg.AWSBucket,
		Region:    cfg.AWSRegion,
		AccessKey: cfg.AWSAccessKey,
		SecretKey: cfg.AWSSecretKey,
		Endpoint:  cfg.AWSEndpoint,
		CDNDomain: cfg.AWSCDNDomain,
		BasePath:  cfg.AWSBasePath,
		PublicURL: cfg.StoragePublicURL,
	}
	if cfg.StorageProvider == "local" {
		storageCfg.BasePath = cfg.StorageBasePath
	}

	storage, err := service.NewStorageProvider(storageCfg)
	if err != nil {
		log.Warn("storage init failed, publish disabled", zap.Error(err))
		return nil
	}
	if local, ok := storage.(*service.LocalStorage); ok {
		deps.ExportDir = local.Root()
	}
	return storage
}

// ==================== 服务启动 ====================

// startServer 启动服务并等待退出信号
func startServer(r *gin.Engine, port string, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("服务启动失败: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务强制关闭: %w", err)
	}

	log.Info("server stopped")
	return nil
}
