package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/velora-next/internal/logger"

	"gorm.io/gorm"
)

const (
	cartTxMaxAttempts = 3
	cartTxBackoffBase = 100 * time.Millisecond

	// 单条目操作与整车操作的事务超时
	itemTxTimeout = 10 * time.Second
	bulkTxTimeout = 15 * time.Second
)

// runCartTx 以带超时的事务执行 fn，失败时按指数退避重试（100ms 起步，每次翻倍）。
// 校验类错误在进入本函数前已被拒绝；未命中类错误直接返回。
// 库存不足跟随通用重试：并发释放可能在下一次尝试前腾出库存。
func (s *CartService) runCartTx(op string, timeout time.Duration, fn func(tx *gorm.DB) error) error {
	var lastErr error
	backoff := cartTxBackoffBase
	for attempt := 1; attempt <= cartTxMaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := s.cartRepo.Transaction(ctx, fn)
		cancel()
		if err == nil {
			return nil
		}
		if isNotFoundError(err) {
			return err
		}
		lastErr = err
		logger.Warnw("cart_tx_attempt_failed", "op", op, "attempt", attempt, "error", err)
		if attempt < cartTxMaxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if errors.Is(lastErr, ErrInsufficientStock) {
		return fmt.Errorf("%s failed after %d attempts: %w", op, cartTxMaxAttempts, lastErr)
	}
	return fmt.Errorf("%w: %s after %d attempts: %v", ErrCartTxFailed, op, cartTxMaxAttempts, lastErr)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrCartNotFound) ||
		errors.Is(err, ErrCartItemNotFound) ||
		errors.Is(err, ErrVariationNotFound)
}
