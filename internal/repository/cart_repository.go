package repository

import (
	"context"
	"errors"
	"time"

	"github.com/velora-next/internal/constants"
	"github.com/velora-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车聚合数据访问接口
// 所有"先读后写"的读取都必须通过 WithTx 绑定到同一事务句柄上执行。
type CartRepository interface {
	FindActiveByUser(userID string) (*models.Cart, error)
	FindActiveByGuest(guestID string) (*models.Cart, error)
	CreateActiveForUser(userID string) (*models.Cart, error)
	CreateActiveForGuest(guestID string) (*models.Cart, error)
	GetAggregate(cartID string) (*models.Cart, error)
	FindItem(cartID, variationID string) (*models.CartItem, error)
	GetItem(itemID string) (*models.CartItem, error)
	ListItems(cartID string) ([]models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItem(itemID string, updates map[string]interface{}) error
	DeleteItem(itemID string) error
	DeleteAllItems(cartID string) error
	UpdateTotals(cartID string, totalItems int, totalAmount models.Money, lastActivity time.Time) error
	UpdateStatus(cartID, status string) error
	ListStaleActive(before time.Time, limit int) ([]models.Cart, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 在带超时上下文的事务中执行 fn
func (r *GormCartRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

// FindActiveByUser 查找用户的激活购物车（COMPLETED 不可见）
func (r *GormCartRepository) FindActiveByUser(userID string) (*models.Cart, error) {
	return r.findActive("user_id = ?", userID)
}

// FindActiveByGuest 查找游客的激活购物车
func (r *GormCartRepository) FindActiveByGuest(guestID string) (*models.Cart, error) {
	return r.findActive("guest_id = ?", guestID)
}

func (r *GormCartRepository) findActive(ownerQuery string, ownerID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items").
		Preload("Items.ProductVariation").
		Preload("Items.ProductVariation.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Where(ownerQuery, ownerID).
		Where("status = ?", constants.CartStatusActive).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateActiveForUser 为用户创建激活购物车
func (r *GormCartRepository) CreateActiveForUser(userID string) (*models.Cart, error) {
	cart := &models.Cart{
		UserID:       &userID,
		Status:       constants.CartStatusActive,
		TotalAmount:  models.NewMoneyFromInt(0),
		TotalItems:   0,
		LastActivity: time.Now(),
	}
	if err := r.db.Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// CreateActiveForGuest 为游客创建激活购物车
func (r *GormCartRepository) CreateActiveForGuest(guestID string) (*models.Cart, error) {
	cart := &models.Cart{
		GuestID:      &guestID,
		Status:       constants.CartStatusActive,
		TotalAmount:  models.NewMoneyFromInt(0),
		TotalItems:   0,
		LastActivity: time.Now(),
	}
	if err := r.db.Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// GetAggregate 加载完整购物车聚合（含规格与图片）
func (r *GormCartRepository) GetAggregate(cartID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Items.ProductVariation").
		Preload("Items.ProductVariation.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Where("id = ?", cartID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindItem 按 (购物车, 规格) 查找购物车项
func (r *GormCartRepository) FindItem(cartID, variationID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.
		Where("cart_id = ? AND product_variation_id = ?", cartID, variationID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItem 按主键查找购物车项（带规格）
func (r *GormCartRepository) GetItem(itemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.
		Preload("ProductVariation").
		Where("id = ?", itemID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems 列出购物车项（带规格）
func (r *GormCartRepository) ListItems(cartID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.
		Preload("ProductVariation").
		Where("cart_id = ?", cartID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem 新建购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItem 更新购物车项字段
func (r *GormCartRepository) UpdateItem(itemID string, updates map[string]interface{}) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Updates(updates).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(itemID string) error {
	return r.db.Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

// DeleteAllItems 清空购物车项
func (r *GormCartRepository) DeleteAllItems(cartID string) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// UpdateTotals 写入派生汇总字段（仅供重算流程调用）
func (r *GormCartRepository) UpdateTotals(cartID string, totalItems int, totalAmount models.Money, lastActivity time.Time) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"total_items":   totalItems,
		"total_amount":  totalAmount,
		"last_activity": lastActivity,
	}).Error
}

// UpdateStatus 更新购物车状态
func (r *GormCartRepository) UpdateStatus(cartID, status string) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("status", status).Error
}

// ListStaleActive 列出最近活动早于 before 的激活购物车
func (r *GormCartRepository) ListStaleActive(before time.Time, limit int) ([]models.Cart, error) {
	var carts []models.Cart
	query := r.db.
		Where("status = ?", constants.CartStatusActive).
		Where("total_items > 0").
		Where("last_activity < ?", before).
		Order("last_activity asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}
