package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/velora-next/internal/provider"
	"github.com/velora-next/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleCartExpireRejectsMalformedPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskCartExpire, []byte("{not json"))

	if err := consumer.handleCartExpire(context.Background(), task); err == nil {
		t.Fatalf("malformed payload must be returned as error for asynq retry accounting")
	}
}

func TestHandleCartExpireSkipsBlankCartID(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	payload, err := json.Marshal(queue.CartExpirePayload{CartID: "   "})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	task := asynq.NewTask(queue.TaskCartExpire, payload)

	if err := consumer.handleCartExpire(context.Background(), task); err != nil {
		t.Fatalf("blank cart id must be skipped silently, got %v", err)
	}
}

func TestHandleCartExpireSkipsWhenMaintenanceUnavailable(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task, err := queue.NewCartExpireTask(queue.CartExpirePayload{CartID: "cart-1"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}

	if err := consumer.handleCartExpire(context.Background(), task); err != nil {
		t.Fatalf("missing maintenance service must not fail the task, got %v", err)
	}
}
