package service

import (
	"strings"
	"time"

	"github.com/velora-next/internal/constants"
	"github.com/velora-next/internal/logger"
	"github.com/velora-next/internal/models"
	"github.com/velora-next/internal/repository"

	"gorm.io/gorm"
)

// AddToCartInput 加入购物车输入
type AddToCartInput struct {
	VariationID string
	Quantity    int
}

// UpdateCartItemInput 更新购物车项输入
type UpdateCartItemInput struct {
	ItemID   string
	Quantity int
}

// RemoveFromCartInput 移除购物车项输入
type RemoveFromCartInput struct {
	ItemID string
}

// GuestCartInput 游客加购输入
type GuestCartInput struct {
	GuestID     string
	VariationID string
	Quantity    int
}

// MergeGuestCartInput 游客购物车合并输入
type MergeGuestCartInput struct {
	GuestID string
	UserID  string
}

// CartService 购物车事务引擎
// 每个写操作都遵循同一协议：校验 → 带超时事务 → 读行 → 校库存/调库存 →
// 写购物车行 → 重算汇总 → 提交并返回聚合。
type CartService struct {
	cartRepo      repository.CartRepository
	variationRepo repository.VariationRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, variationRepo repository.VariationRepository) *CartService {
	return &CartService{
		cartRepo:      cartRepo,
		variationRepo: variationRepo,
	}
}

// GetCart 获取归属者的激活购物车聚合（不存在时返回 nil）
func (s *CartService) GetCart(identifier string, isGuest bool) (*models.Cart, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, ErrIdentifierRequired
	}
	if isGuest {
		return s.cartRepo.FindActiveByGuest(identifier)
	}
	return s.cartRepo.FindActiveByUser(identifier)
}

// AddItem 加入购物车
// 库存按本次新增的增量扣减；目标数量校验以合并既有条目后的总量为准。
func (s *CartService) AddItem(input AddToCartInput, identifier string, isGuest bool) (*models.Cart, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, ErrIdentifierRequired
	}
	if strings.TrimSpace(input.VariationID) == "" {
		return nil, ErrVariationIDRequired
	}
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var aggregate *models.Cart
	err := s.runCartTx("add_item", itemTxTimeout, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		variationRepo := s.variationRepo.WithTx(tx)

		cart, err := findOrCreateActiveCart(cartRepo, identifier, isGuest)
		if err != nil {
			return err
		}

		variation, err := variationRepo.GetByID(input.VariationID)
		if err != nil {
			return err
		}
		if variation == nil {
			return ErrVariationNotFound
		}

		// 粗检：连本次新增都不够时快速失败
		if variation.Stock < input.Quantity {
			return ErrInsufficientStock
		}

		existing, err := cartRepo.FindItem(cart.ID, input.VariationID)
		if err != nil {
			return err
		}
		targetQuantity := input.Quantity
		if existing != nil {
			targetQuantity += existing.Quantity
		}

		// 终检：以目标数量为准，结果覆盖粗检
		if variation.Stock < targetQuantity {
			return ErrInsufficientStock
		}

		// 只扣减本次新增的增量；条件更新兜底同规格的并发竞争
		affected, err := variationRepo.ReserveStock(variation.ID, input.Quantity)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientStock
		}

		price := variation.EffectivePrice()
		if existing != nil {
			if err := cartRepo.UpdateItem(existing.ID, map[string]interface{}{
				"quantity":   targetQuantity,
				"price":      price,
				"updated_at": time.Now(),
			}); err != nil {
				return err
			}
		} else {
			item := &models.CartItem{
				CartID:             cart.ID,
				ProductID:          variation.ProductID,
				ProductVariationID: variation.ID,
				Quantity:           targetQuantity,
				Price:              price,
			}
			if err := cartRepo.CreateItem(item); err != nil {
				return err
			}
		}

		aggregate, err = s.recalcTotals(tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

// AddItemToGuestCart 游客加购
func (s *CartService) AddItemToGuestCart(input GuestCartInput) (*models.Cart, error) {
	return s.AddItem(AddToCartInput{
		VariationID: input.VariationID,
		Quantity:    input.Quantity,
	}, input.GuestID, true)
}

// UpdateItem 更新购物车项数量
// 数量小于等于 0 时删除条目并释放全部预占库存。
func (s *CartService) UpdateItem(input UpdateCartItemInput) (*models.Cart, error) {
	if strings.TrimSpace(input.ItemID) == "" {
		return nil, ErrItemIDRequired
	}

	var aggregate *models.Cart
	err := s.runCartTx("update_item", itemTxTimeout, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		variationRepo := s.variationRepo.WithTx(tx)

		item, err := cartRepo.GetItem(input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}

		if input.Quantity <= 0 {
			if err := cartRepo.DeleteItem(item.ID); err != nil {
				return err
			}
			if _, err := variationRepo.ReleaseStock(item.ProductVariationID, item.Quantity); err != nil {
				return err
			}
		} else {
			diff := input.Quantity - item.Quantity
			if item.ProductVariation != nil && item.ProductVariation.Stock < diff {
				return ErrInsufficientStock
			}
			if diff > 0 {
				affected, err := variationRepo.ReserveStock(item.ProductVariationID, diff)
				if err != nil {
					return err
				}
				if affected == 0 {
					return ErrInsufficientStock
				}
			} else if diff < 0 {
				if _, err := variationRepo.ReleaseStock(item.ProductVariationID, -diff); err != nil {
					return err
				}
			}

			updates := map[string]interface{}{
				"quantity":   input.Quantity,
				"updated_at": time.Now(),
			}
			if item.ProductVariation != nil {
				updates["price"] = item.ProductVariation.EffectivePrice()
			}
			if err := cartRepo.UpdateItem(item.ID, updates); err != nil {
				return err
			}
		}

		aggregate, err = s.recalcTotals(tx, item.CartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

// RemoveItem 移除购物车项并释放其全部预占库存
func (s *CartService) RemoveItem(input RemoveFromCartInput) (*models.Cart, error) {
	if strings.TrimSpace(input.ItemID) == "" {
		return nil, ErrItemIDRequired
	}

	var aggregate *models.Cart
	err := s.runCartTx("remove_item", itemTxTimeout, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		variationRepo := s.variationRepo.WithTx(tx)

		item, err := cartRepo.GetItem(input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}

		if err := cartRepo.DeleteItem(item.ID); err != nil {
			return err
		}
		if _, err := variationRepo.ReleaseStock(item.ProductVariationID, item.Quantity); err != nil {
			return err
		}

		aggregate, err = s.recalcTotals(tx, item.CartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

// ClearCart 清空归属者的激活购物车，逐项释放库存
func (s *CartService) ClearCart(identifier string, isGuest bool) (*models.Cart, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, ErrIdentifierRequired
	}

	var aggregate *models.Cart
	err := s.runCartTx("clear_cart", bulkTxTimeout, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		variationRepo := s.variationRepo.WithTx(tx)

		cart, err := findActiveCart(cartRepo, identifier, isGuest)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
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

		aggregate, err = s.recalcTotals(tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

// MergeGuestCart 将游客购物车合并进用户购物车
// 预占随条目一并转移，库存不做二次扣减；游客车合并后置为 COMPLETED 留档。
func (s *CartService) MergeGuestCart(input MergeGuestCartInput) (*models.Cart, error) {
	if strings.TrimSpace(input.GuestID) == "" || strings.TrimSpace(input.UserID) == "" {
		return nil, ErrMergeIDsRequired
	}

	var aggregate *models.Cart
	err := s.runCartTx("merge_guest_cart", bulkTxTimeout, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		variationRepo := s.variationRepo.WithTx(tx)

		guestCart, err := cartRepo.FindActiveByGuest(input.GuestID)
		if err != nil {
			return err
		}
		if guestCart == nil {
			return ErrCartNotFound
		}

		userCart, err := cartRepo.FindActiveByUser(input.UserID)
		if err != nil {
			return err
		}
		if userCart == nil {
			userCart, err = cartRepo.CreateActiveForUser(input.UserID)
			if err != nil {
				return err
			}
		}

		for i := range guestCart.Items {
			guestItem := &guestCart.Items[i]
			variation, err := variationRepo.GetByID(guestItem.ProductVariationID)
			if err != nil {
				return err
			}
			if variation == nil {
				// 规格已下架：跳过该项，不中断整体合并
				logger.Debugw("cart_merge_skip_missing_variation",
					"guest_cart_id", guestCart.ID,
					"variation_id", guestItem.ProductVariationID,
				)
				continue
			}

			price := variation.EffectivePrice()
			existing, err := cartRepo.FindItem(userCart.ID, guestItem.ProductVariationID)
			if err != nil {
				return err
			}
			if existing != nil {
				if err := cartRepo.UpdateItem(existing.ID, map[string]interface{}{
					"quantity":   existing.Quantity + guestItem.Quantity,
					"price":      price,
					"updated_at": time.Now(),
				}); err != nil {
					return err
				}
			} else {
				item := &models.CartItem{
					CartID:             userCart.ID,
					ProductID:          guestItem.ProductID,
					ProductVariationID: guestItem.ProductVariationID,
					Quantity:           guestItem.Quantity,
					Price:              price,
				}
				if err := cartRepo.CreateItem(item); err != nil {
					return err
				}
			}
		}

		if err := cartRepo.UpdateStatus(guestCart.ID, constants.CartStatusCompleted); err != nil {
			return err
		}

		aggregate, err = s.recalcTotals(tx, userCart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return aggregate, nil
}

func findActiveCart(cartRepo *repository.GormCartRepository, identifier string, isGuest bool) (*models.Cart, error) {
	if isGuest {
		return cartRepo.FindActiveByGuest(identifier)
	}
	return cartRepo.FindActiveByUser(identifier)
}

func findOrCreateActiveCart(cartRepo *repository.GormCartRepository, identifier string, isGuest bool) (*models.Cart, error) {
	cart, err := findActiveCart(cartRepo, identifier, isGuest)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	if isGuest {
		return cartRepo.CreateActiveForGuest(identifier)
	}
	return cartRepo.CreateActiveForUser(identifier)
}
