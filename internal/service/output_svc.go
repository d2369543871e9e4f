package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/internal/repository"
	"contenta_dev_v1/pkg/logger"
)

// ==================== 历史记录服务 ====================

// OutputService 按用户维护最近 200 条生成记录
//
// 每次写操作都读出整张列表、修改后整体写回，代价 O(n)。
// 同一用户的并发写入不做隔离，后写者覆盖先写者。
// 存储层异常只记日志：读当作空列表，写静默失败。
type OutputService struct {
	kv      repository.KVRepository
	logger  *zap.Logger
	metrics *Metrics

	now   func() time.Time
	newID func() string
}

// NewOutputService 创建历史记录服务，kv 为 nil 表示当前环境没有持久化后端
func NewOutputService(kv repository.KVRepository, log *zap.Logger, metrics *Metrics) *OutputService {
	return &OutputService{
		kv:      kv,
		logger:  logger.OrNop(log).Named("OutputService"),
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// LoadOutputs 返回用户的记录，按 createdAt 倒序
// 从未写入或数据损坏时返回空列表
func (s *OutputService) LoadOutputs(ctx context.Context, userID string) []model.OutputRecord {
	list, _ := s.load(ctx, userID)
	return list
}

// SaveOutput 分配 id 和 createdAt，插到最前并截断到容量上限
// 没有后端或写入失败时返回 nil
func (s *OutputService) SaveOutput(ctx context.Context, userID string, draft model.OutputDraft) *model.OutputRecord {
	if s.kv == nil {
		return nil
	}
	list, ok := s.load(ctx, userID)
	if !ok {
		return nil
	}

	rec := model.OutputRecord{
		ID:           s.newID(),
		CreatedAt:    s.now().UnixMilli(),
		Mode:         draft.Mode,
		Text:         draft.Text,
		Style:        draft.Style,
		Platform:     draft.Platform,
		Structured:   draft.Structured,
		Raw:          draft.Raw,
		ImageDataURL: draft.ImageDataURL,
		ImageName:    draft.ImageName,
	}

	list = append([]model.OutputRecord{rec}, list...)
	if len(list) > model.OutputCapacity {
		s.logger.Debug("history full, evicting oldest",
			zap.String("user_id", model.ResolveUserID(userID)),
			zap.Int("evicted", len(list)-model.OutputCapacity))
		list = list[:model.OutputCapacity]
	}

	if !s.persist(ctx, userID, list) {
		return nil
	}
	s.metrics.outputSaved(string(rec.Mode))
	return &rec
}

// ToggleFavorite 翻转收藏状态，id 不存在时返回 nil 且不写入
func (s *OutputService) ToggleFavorite(ctx context.Context, userID, id string) *model.OutputRecord {
	list, ok := s.load(ctx, userID)
	if !ok {
		return nil
	}

	idx := indexOf(list, id)
	if idx < 0 {
		return nil
	}
	list[idx].Favorite = !list[idx].Favorite

	if !s.persist(ctx, userID, list) {
		return nil
	}
	rec := list[idx]
	return &rec
}

// RemoveOutput 删除指定记录，不存在时什么也不做
func (s *OutputService) RemoveOutput(ctx context.Context, userID, id string) {
	list, ok := s.load(ctx, userID)
	if !ok {
		return
	}

	idx := indexOf(list, id)
	if idx < 0 {
		return
	}
	list = append(list[:idx], list[idx+1:]...)
	s.persist(ctx, userID, list)
}

// ClearAll 删除用户的全部记录
func (s *OutputService) ClearAll(ctx context.Context, userID string) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Delete(ctx, model.OutputsKey(userID)); err != nil {
		s.logger.Warn("clear outputs failed",
			zap.String("user_id", model.ResolveUserID(userID)), zap.Error(err))
	}
}

// GetOutput 按 id 查找
func (s *OutputService) GetOutput(ctx context.Context, userID, id string) *model.OutputRecord {
	list := s.LoadOutputs(ctx, userID)
	if idx := indexOf(list, id); idx >= 0 {
		rec := list[idx]
		return &rec
	}
	return nil
}

// ListFavorites 收藏的记录
func (s *OutputService) ListFavorites(ctx context.Context, userID string) []model.OutputRecord {
	return s.SearchOutputs(ctx, userID, model.OutputFilter{FavoritesOnly: true})
}

// SearchOutputs 按模式、平台、关键字（忽略大小写匹配 text）筛选
func (s *OutputService) SearchOutputs(ctx context.Context, userID string, filter model.OutputFilter) []model.OutputRecord {
	list := s.LoadOutputs(ctx, userID)
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]model.OutputRecord, 0, len(list))
	for _, rec := range list {
		if filter.FavoritesOnly && !rec.Favorite {
			continue
		}
		if filter.Mode != "" && rec.Mode != filter.Mode {
			continue
		}
		if filter.Platform != "" && !strings.EqualFold(rec.Platform, filter.Platform) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(rec.Text), query) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// ==================== 内部方法 ====================

// load ok=false 表示后端不可用，调用方不应再写回
func (s *OutputService) load(ctx context.Context, userID string) ([]model.OutputRecord, bool) {
	empty := []model.OutputRecord{}
	if s.kv == nil {
		return empty, false
	}

	key := model.OutputsKey(userID)
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("load outputs failed", zap.String("key", key), zap.Error(err))
		return empty, false
	}
	if !found {
		return empty, true
	}

	var list []model.OutputRecord
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Warn("corrupt outputs blob, treating as empty", zap.String("key", key), zap.Error(err))
		return empty, true
	}
	if list == nil {
		return empty, true
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt > list[j].CreatedAt
	})
	return list, true
}

func (s *OutputService) persist(ctx context.Context, userID string, list []model.OutputRecord) bool {
	key := model.OutputsKey(userID)
	data, err := json.Marshal(list)
	if err != nil {
		s.logger.Warn("encode outputs failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.logger.Warn("persist outputs failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func indexOf(list []model.OutputRecord, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
