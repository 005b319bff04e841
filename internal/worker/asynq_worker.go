package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fanli-next/internal/cache"
	"github.com/fanli-next/internal/logger"
	"github.com/fanli-next/internal/provider"
	"github.com/fanli-next/internal/queue"
	"github.com/fanli-next/internal/settlement"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSettlementRun, c.handleSettlementRun)
}

func (c *Consumer) handleSettlementRun(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_settlement_run_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	// 入队方持有的运行锁在任务终结时释放，载荷损坏被丢弃时也一样
	defer func() {
		if err := cache.ReleaseRunLock(ctx); err != nil {
			logger.Warnw("worker_settlement_run_unlock_failed", "error", err)
		}
	}()

	var payload queue.SettlementRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_settlement_run_unmarshal_failed", "error", err)
		return nil // 载荷损坏，重试无意义
	}
	processDate, err := time.Parse("2006-01-02", payload.ProcessDate)
	if err != nil {
		logger.Warnw("worker_settlement_run_bad_date", "process_date", payload.ProcessDate, "error", err)
		return nil // 载荷损坏，重试无意义
	}

	runID, err := c.SettlementEngine.Process(ctx, settlement.ProcessRequest{
		ProcessDate: processDate,
		Suppliers:   payload.Suppliers,
		Extra:       payload.Extra,
	})
	if err != nil {
		logger.Errorw("worker_settlement_run_failed", "run_id", runID, "error", err)
		return err
	}
	logger.Infow("worker_settlement_run_done", "run_id", runID, "process_date", payload.ProcessDate)
	return nil
}
