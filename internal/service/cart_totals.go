package service

import (
	"time"

	"github.com/velora-next/internal/models"

	"gorm.io/gorm"
)

// recalcTotals 购物车汇总重算
// 先把每个条目的单价快照刷新为规格当前生效单价，再按刷新后的条目重算
// total_items 与 total_amount，连同 last_activity 一并写回购物车，最后返回
// 完整聚合。派生字段只允许从这里写入，作为每个写操作的收尾步骤执行。
func (s *CartService) recalcTotals(tx *gorm.DB, cartID string) (*models.Cart, error) {
	cartRepo := s.cartRepo.WithTx(tx)

	items, err := cartRepo.ListItems(cartID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	totalItems := 0
	totalAmount := models.NewMoneyFromInt(0)
	for i := range items {
		item := &items[i]
		price := item.Price
		if item.ProductVariation != nil {
			price = item.ProductVariation.EffectivePrice()
			if err := cartRepo.UpdateItem(item.ID, map[string]interface{}{
				"price":      price,
				"updated_at": now,
			}); err != nil {
				return nil, err
			}
		}
		totalItems += item.Quantity
		totalAmount = totalAmount.AddMoney(price.MulInt(item.Quantity))
	}

	if err := cartRepo.UpdateTotals(cartID, totalItems, totalAmount, now); err != nil {
		return nil, err
	}

	aggregate, err := cartRepo.GetAggregate(cartID)
	if err != nil {
		return nil, err
	}
	if aggregate == nil {
		return nil, ErrCartNotFound
	}
	return aggregate, nil
}
