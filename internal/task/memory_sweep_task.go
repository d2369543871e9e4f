package task

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"contenta_dev_v1/pkg/logger"
)

// DefaultSweepSpec 每分钟第 0 秒执行
const DefaultSweepSpec = "0 * * * * *"

// Sweeper 可定期清理的进程内状态
type Sweeper interface {
	Sweep() int
}

// MemorySweepTask 定期清理内存缓存的过期条目和冷却记录
type MemorySweepTask struct {
	sweepers map[string]Sweeper
	spec     string
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewMemorySweepTask spec 为空时使用 DefaultSweepSpec
func NewMemorySweepTask(spec string, log *zap.Logger) *MemorySweepTask {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	return &MemorySweepTask{
		sweepers: make(map[string]Sweeper),
		spec:     spec,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.OrNop(log).Named("MemorySweepTask"),
	}
}

// Register 在 Start 之前调用，nil 忽略
func (t *MemorySweepTask) Register(name string, s Sweeper) {
	if s == nil {
		return
	}
	t.sweepers[name] = s
}

// Start 没有注册任何 Sweeper 时直接返回
func (t *MemorySweepTask) Start() error {
	if len(t.sweepers) == 0 {
		return nil
	}
	if _, err := t.cron.AddFunc(t.spec, func() { t.RunOnce() }); err != nil {
		return err
	}
	t.cron.Start()
	t.logger.Info("memory sweep scheduled", zap.String("spec", t.spec), zap.Int("sweepers", len(t.sweepers)))
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (t *MemorySweepTask) Stop() {
	<-t.cron.Stop().Done()
}

// RunOnce 立即执行一次，返回各 Sweeper 的清理数量
func (t *MemorySweepTask) RunOnce() map[string]int {
	result := make(map[string]int, len(t.sweepers))
	for name, s := range t.sweepers {
		n := s.Sweep()
		result[name] = n
		if n > 0 {
			t.logger.Debug("swept", zap.String("name", name), zap.Int("removed", n))
		}
	}
	return result
}
