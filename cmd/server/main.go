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

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily-report/backend/config"
	"daily-report/backend/internal/api/handler"
	"daily-report/backend/internal/api/router"
	"daily-report/backend/internal/repository"
	"daily-report/backend/internal/service"
	"daily-report/backend/pkg/database"
	"daily-report/backend/pkg/jwt"
	applogger "daily-report/backend/pkg/logger"
	"daily-report/backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// REPORT_CONFIG_FILE 可指定配置文件路径
	cfg, err := config.Load(os.Getenv("REPORT_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("owner_only_detail", cfg.Feature.OwnerOnlyDetail),
	)

	// 1. 数据库连接与迁移
	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDatabase(db, logger)

	// 2. Redis（可选：连接失败时降级运行）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，限流与 Token 黑名单将不可用", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// 3. 依赖注入: Repository → Service → Handler → Router
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	engine := router.Setup(cfg, handler.NewHandler(svc), jwtMgr, rdb, db, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. 启动 HTTP 服务器，收到信号后优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP 服务器异常: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("收到关闭信号，开始优雅关闭...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("服务器关闭异常: %w", err)
	}

	logger.Info("服务器已关闭")
	return nil
}

func openDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
}
