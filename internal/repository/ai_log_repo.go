package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"contenta_dev_v1/internal/model"
)

// ==================== 仓储接口 ====================

// AICallLogRepository AI调用日志仓储接口
type AICallLogRepository interface {
	Create(ctx context.Context, log *model.AICallLog) error
	GetByID(ctx context.Context, id int64) (*model.AICallLog, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.AICallLog, error)

	// 统计查询
	GetUsageByUser(ctx context.Context, userID string, startTime, endTime time.Time) (*AIUsageStats, error)
	GetModeUsage(ctx context.Context, userID string, startTime, endTime time.Time) ([]ModeUsageStats, error)
	GetDailyUsage(ctx context.Context, startDate, endDate time.Time) ([]DailyUsageStats, error)

	// 清理
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// ==================== 统计结构 ====================

// AIUsageStats AI用量统计
type AIUsageStats struct {
	TotalCalls         int64   `json:"total_calls"`
	TextCalls          int64   `json:"text_calls"`
	VisionCalls        int64   `json:"vision_calls"`
	TotalPromptChars   int64   `json:"total_prompt_chars"`
	TotalResponseChars int64   `json:"total_response_chars"`
	ParsedCount        int64   `json:"parsed_count"`
	AvgDurationMs      float64 `json:"avg_duration_ms"`
	SuccessCount       int64   `json:"success_count"`
	FailedCount        int64   `json:"failed_count"`
}

// ModeUsageStats 按模式统计
type ModeUsageStats struct {
	Mode       string `json:"mode"`
	TotalCalls int64  `json:"total_calls"`
	Failed     int64  `json:"failed"`
}

// DailyUsageStats 每日用量统计
type DailyUsageStats struct {
	Date       string `json:"date"`
	TotalCalls int64  `json:"total_calls"`
	Failed     int64  `json:"failed"`
}

// ==================== 仓储实现 ====================

type aiCallLogRepo struct {
	db *gorm.DB
}

// NewAICallLogRepository 创建AI调用日志仓储
func NewAICallLogRepository(db *gorm.DB) AICallLogRepository {
	return &aiCallLogRepo{db: db}
}

func (r *aiCallLogRepo) Create(ctx context.Context, log *model.AICallLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *aiCallLogRepo) GetByID(ctx context.Context, id int64) (*model.AICallLog, error) {
	var log model.AICallLog
	if err := r.db.WithContext(ctx).First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *aiCallLogRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.AICallLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []model.AICallLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// userRange 用户 + 时间范围过滤，零值时间不参与过滤
func (r *aiCallLogRepo) userRange(ctx context.Context, userID string, startTime, endTime time.Time) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.AICallLog{}).Where("user_id = ?", userID)
	if !startTime.IsZero() {
		query = query.Where("created_at >= ?", startTime)
	}
	if !endTime.IsZero() {
		query = query.Where("created_at <= ?", endTime)
	}
	return query
}

func (r *aiCallLogRepo) GetUsageByUser(ctx context.Context, userID string, startTime, endTime time.Time) (*AIUsageStats, error) {
	var stats AIUsageStats

	err := r.userRange(ctx, userID, startTime, endTime).Select(`
		COUNT(*) as total_calls,
		COALESCE(SUM(CASE WHEN call_type = 'text' THEN 1 ELSE 0 END), 0) as text_calls,
		COALESCE(SUM(CASE WHEN call_type = 'vision' THEN 1 ELSE 0 END), 0) as vision_calls,
		COALESCE(SUM(prompt_chars), 0) as total_prompt_chars,
		COALESCE(SUM(response_chars), 0) as total_response_chars,
		COALESCE(SUM(CASE WHEN parsed THEN 1 ELSE 0 END), 0) as parsed_count,
		COALESCE(AVG(duration_ms), 0) as avg_duration_ms,
		COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0) as success_count,
		COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) as failed_count
	`).Scan(&stats).Error

	return &stats, err
}

func (r *aiCallLogRepo) GetModeUsage(ctx context.Context, userID string, startTime, endTime time.Time) ([]ModeUsageStats, error) {
	var stats []ModeUsageStats

	err := r.userRange(ctx, userID, startTime, endTime).
		Select(`
			mode,
			COUNT(*) as total_calls,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) as failed
		`).
		Group("mode").
		Order("mode ASC").
		Scan(&stats).Error

	return stats, err
}

func (r *aiCallLogRepo) GetDailyUsage(ctx context.Context, startDate, endDate time.Time) ([]DailyUsageStats, error) {
	var stats []DailyUsageStats

	err := r.db.WithContext(ctx).Model(&model.AICallLog{}).
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Select(`
			DATE(created_at) as date,
			COUNT(*) as total_calls,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) as failed
		`).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&stats).Error

	return stats, err
}

func (r *aiCallLogRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&model.AICallLog{})
	return result.RowsAffected, result.Error
}
