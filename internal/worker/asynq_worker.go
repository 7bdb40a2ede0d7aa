package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/velora-next/internal/logger"
	"github.com/velora-next/internal/provider"
	"github.com/velora-next/internal/queue"
	"github.com/velora-next/internal/service"

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
	mux.HandleFunc(queue.TaskCartExpire, c.handleCartExpire)
}

func (c *Consumer) handleCartExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_expire_unmarshal_failed", "error", err)
		return err
	}
	cartID := strings.TrimSpace(payload.CartID)
	if cartID == "" {
		logger.Debugw("worker_cart_expire_skip_invalid_payload", "cart_id", payload.CartID)
		return nil
	}
	if c.CartMaintenanceService == nil {
		logger.Warnw("worker_cart_expire_skip_maintenance_service_nil", "cart_id", cartID)
		return nil
	}
	if err := c.CartMaintenanceService.ExpireCart(cartID); err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			logger.Debugw("worker_cart_expire_skip_cart_not_found", "cart_id", cartID)
			return nil
		default:
			logger.Warnw("worker_cart_expire_failed", "cart_id", cartID, "error", err)
			return err
		}
	}
	return nil
}
