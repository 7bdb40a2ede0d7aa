package worker

import (
	"context"
	"errors"
	"time"

	"github.com/velora-next/internal/config"
	"github.com/velora-next/internal/logger"
	"github.com/velora-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	cartExpireScanInterval = 10 * time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.CartMaintenanceService != nil {
		go s.runCartExpireScanLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runCartExpireScanLoop 周期扫描超时未活动的购物车，逐个推送回收任务
func (s *Service) runCartExpireScanLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.CartMaintenanceService == nil {
		return
	}
	runOnce := func() {
		cartIDs, err := s.consumer.CartMaintenanceService.ListStaleCartIDs(time.Now())
		if err != nil {
			logger.Warnw("worker_cart_expire_scan_failed", "error", err)
			return
		}
		for _, cartID := range cartIDs {
			if err := s.consumer.QueueClient.EnqueueCartExpire(queue.CartExpirePayload{CartID: cartID}); err != nil {
				logger.Warnw("worker_cart_expire_enqueue_failed", "cart_id", cartID, "error", err)
			}
		}
	}
	runOnce()

	ticker := time.NewTicker(cartExpireScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
