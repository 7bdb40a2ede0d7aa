package service

import (
	"time"

	"github.com/velora-next/internal/logger"
	"github.com/velora-next/internal/repository"

	"gorm.io/gorm"
)

const defaultStaleScanLimit = 100

// CartMaintenanceService 购物车维护：回收闲置购物车占用的库存
// 激活购物车在 staleAfter 内无任何活动时视为已放弃，逐项释放库存并清空，
// 购物车本身保持 ACTIVE 可复用。
type CartMaintenanceService struct {
	cartService *CartService
	cartRepo    repository.CartRepository
	staleAfter  time.Duration
}

// NewCartMaintenanceService 创建购物车维护服务
func NewCartMaintenanceService(cartService *CartService, cartRepo repository.CartRepository, staleAfter time.Duration) *CartMaintenanceService {
	return &CartMaintenanceService{
		cartService: cartService,
		cartRepo:    cartRepo,
		staleAfter:  staleAfter,
	}
}

// ListStaleCartIDs 扫描闲置超期的激活购物车
func (m *CartMaintenanceService) ListStaleCartIDs(now time.Time) ([]string, error) {
	if m == nil || m.staleAfter <= 0 {
		return nil, nil
	}
	carts, err := m.cartRepo.ListStaleActive(now.Add(-m.staleAfter), defaultStaleScanLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(carts))
	for i := range carts {
		ids = append(ids, carts[i].ID)
	}
	return ids, nil
}

// ExpireCart 回收单个闲置购物车：释放库存、清空条目、重算汇总
// 购物车已不存在或已合并时静默跳过。
func (m *CartMaintenanceService) ExpireCart(cartID string) error {
	if m == nil || cartID == "" {
		return nil
	}
	return m.cartService.runCartTx("expire_cart", bulkTxTimeout, func(tx *gorm.DB) error {
		cartRepo := m.cartService.cartRepo.WithTx(tx)
		variationRepo := m.cartService.variationRepo.WithTx(tx)

		cart, err := cartRepo.GetAggregate(cartID)
		if err != nil {
			return err
		}
		if cart == nil || !cart.IsActive() {
			logger.Debugw("cart_expire_skip", "cart_id", cartID)
			return nil
		}
		if len(cart.Items) == 0 {
			return nil
		}

		for i := range cart.Items {
			item := &cart.Items[i]
			if _, err := variationRepo.ReleaseStock(item.ProductVariationID, item.Quantity); err != nil {
				return err
			}
		}
		if err := cartRepo.DeleteAllItems(cart.ID); err != nil {
			return err
		}

		_, err = m.cartService.recalcTotals(tx, cart.ID)
		return err
	})
}
