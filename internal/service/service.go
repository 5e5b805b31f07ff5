package service

import (
	"go.uber.org/zap"

	"daily-report/backend/config"
	"daily-report/backend/internal/repository"
	"daily-report/backend/pkg/jwt"
	"daily-report/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth   AuthService
	Report ReportService
	Export ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	reportSvc := NewReportService(repo, logger, WithOwnerOnlyDetail(cfg.Feature.OwnerOnlyDetail))
	return &Service{
		Auth:   NewAuthService(repo, jwtMgr, rdb, logger),
		Report: reportSvc,
		Export: NewExportService(reportSvc, logger),
	}
}
