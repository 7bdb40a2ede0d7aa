package repository

import (
	"errors"

	"github.com/velora-next/internal/models"

	"gorm.io/gorm"
)

// VariationRepository 商品规格数据访问接口（库存台账）
// 库存增减使用带条件的单语句更新，受影响行数为 0 表示库存不足。
type VariationRepository interface {
	GetByID(id string) (*models.ProductVariation, error)
	ListByProduct(productID string) ([]models.ProductVariation, error)
	Create(variation *models.ProductVariation) error
	ReserveStock(id string, quantity int) (int64, error)
	ReleaseStock(id string, quantity int) (int64, error)
	WithTx(tx *gorm.DB) *GormVariationRepository
}

// GormVariationRepository GORM 实现
type GormVariationRepository struct {
	db *gorm.DB
}

// NewVariationRepository 创建规格仓库
func NewVariationRepository(db *gorm.DB) *GormVariationRepository {
	return &GormVariationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVariationRepository) WithTx(tx *gorm.DB) *GormVariationRepository {
	if tx == nil {
		return r
	}
	return &GormVariationRepository{db: tx}
}

// GetByID 按主键查找规格（带图片）
func (r *GormVariationRepository) GetByID(id string) (*models.ProductVariation, error) {
	var variation models.ProductVariation
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Where("id = ?", id).
		First(&variation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &variation, nil
}

// ListByProduct 列出商品的全部规格
func (r *GormVariationRepository) ListByProduct(productID string) ([]models.ProductVariation, error) {
	var variations []models.ProductVariation
	if err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		Where("product_id = ?", productID).
		Order("created_at asc").
		Find(&variations).Error; err != nil {
		return nil, err
	}
	return variations, nil
}

// Create 新建规格
func (r *GormVariationRepository) Create(variation *models.ProductVariation) error {
	return r.db.Create(variation).Error
}

// ReserveStock 预占库存：stock >= quantity 时原子扣减，返回受影响行数
func (r *GormVariationRepository) ReserveStock(id string, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.ProductVariation{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	return result.RowsAffected, result.Error
}

// ReleaseStock 释放库存：原子加回 quantity
func (r *GormVariationRepository) ReleaseStock(id string, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, nil
	}
	result := r.db.Model(&models.ProductVariation{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity))
	return result.RowsAffected, result.Error
}
