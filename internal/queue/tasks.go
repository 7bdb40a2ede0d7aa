package queue

import (
	"encoding/json"

	"github.com/velora-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartExpire 过期购物车回收任务
	TaskCartExpire = constants.TaskCartExpire
)

// CartExpirePayload 过期购物车回收任务载荷
type CartExpirePayload struct {
	CartID string `json:"cart_id"`
}

// NewCartExpireTask 创建过期购物车回收任务
func NewCartExpireTask(payload CartExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartExpire, body), nil
}
