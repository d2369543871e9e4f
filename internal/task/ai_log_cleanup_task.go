package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"contenta_dev_v1/internal/repository"
	"contenta_dev_v1/pkg/logger"
)

// DefaultCleanupSpec 每天 03:30 执行（秒级表达式）
const DefaultCleanupSpec = "0 30 3 * * *"

// AICallLogCleanupTask 定期删除过期的 AI 调用日志
type AICallLogCleanupTask struct {
	repo      repository.AICallLogRepository
	retention time.Duration
	spec      string
	cron      *cron.Cron
	logger    *zap.Logger
	now       func() time.Time
}

// NewAICallLogCleanupTask retentionDays <= 0 表示不清理
func NewAICallLogCleanupTask(repo repository.AICallLogRepository, retentionDays int, log *zap.Logger) *AICallLogCleanupTask {
	if retentionDays < 0 {
		retentionDays = 0
	}
	return &AICallLogCleanupTask{
		repo:      repo,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		spec:      DefaultCleanupSpec,
		cron:      cron.New(cron.WithSeconds()), // 支持秒级控制
		logger:    logger.OrNop(log).Named("AICallLogCleanupTask"),
		now:       time.Now,
	}
}

// Enabled 是否配置了保留期
func (t *AICallLogCleanupTask) Enabled() bool {
	return t.retention > 0
}

// Start 注册并启动定时任务，未配置保留期时直接返回
func (t *AICallLogCleanupTask) Start() error {
	if !t.Enabled() {
		t.logger.Info("ai call log cleanup disabled")
		return nil
	}
	if _, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.RunOnce(ctx)
	}); err != nil {
		return err
	}

	t.cron.Start()
	t.logger.Info("ai call log cleanup scheduled",
		zap.String("spec", t.spec), zap.Duration("retention", t.retention))
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (t *AICallLogCleanupTask) Stop() {
	<-t.cron.Stop().Done()
}

// RunOnce 立即执行一次，返回删除条数
func (t *AICallLogCleanupTask) RunOnce(ctx context.Context) int64 {
	if !t.Enabled() {
		return 0
	}
	before := t.now().Add(-t.retention)
	n, err := t.repo.DeleteBefore(ctx, before)
	if err != nil {
		t.logger.Error("cleanup ai call logs failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		t.logger.Info("ai call logs cleaned", zap.Int64("deleted", n), zap.Time("before", before))
	}
	return n
}
