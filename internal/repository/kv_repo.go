package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/pkg/utils"
)

// ==================== 仓储接口 ====================

// KVRepository 通用键值持久化接口
// 值为 JSON 文本，调用方负责编解码
type KVRepository interface {
	// Get 键不存在时 found=false 且 err=nil
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ==================== SQL 实现 ====================

type sqlKVRepo struct {
	db *gorm.DB
}

// NewSQLKVRepository 基于 gorm 的键值仓储（sqlite/postgres）
func NewSQLKVRepository(db *gorm.DB) KVRepository {
	return &sqlKVRepo{db: db}
}

func (r *sqlKVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.KVEntry
	err := r.db.WithContext(ctx).Where("kv_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *sqlKVRepo) Set(ctx context.Context, key, value string) error {
	entry := model.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *sqlKVRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("kv_key = ?", key).Delete(&model.KVEntry{}).Error
}

// ==================== 内存实现 ====================

type memoryKVRepo struct {
	cache *utils.MemoryCache
	ttl   time.Duration
}

// NewMemoryKVRepository 进程内键值仓储，条目永不过期
func NewMemoryKVRepository(cache *utils.MemoryCache) KVRepository {
	return NewMemoryKVRepositoryWithTTL(cache, 0)
}

// NewMemoryKVRepositoryWithTTL 每次写入后 ttl 内未再写入的键视为不存在
// ttl <= 0 表示永不过期
func NewMemoryKVRepositoryWithTTL(cache *utils.MemoryCache, ttl time.Duration) KVRepository {
	if cache == nil {
		cache = utils.NewMemoryCache()
	}
	if ttl < 0 {
		ttl = 0
	}
	return &memoryKVRepo{cache: cache, ttl: ttl}
}

func (r *memoryKVRepo) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := r.cache.Get(key)
	return v, ok, nil
}

func (r *memoryKVRepo) Set(_ context.Context, key, value string) error {
	r.cache.Set(key, value, r.ttl)
	return nil
}

func (r *memoryKVRepo) Delete(_ context.Context, key string) error {
	r.cache.Delete(key)
	return nil
}
