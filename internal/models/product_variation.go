package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newID() string {
	return uuid.NewString()
}

// ProductVariation 商品规格表（尺码/颜色维度，价格与库存挂在规格上）
type ProductVariation struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`                     // 主键
	ProductID string    `gorm:"type:varchar(36);not null;index" json:"product_id"`         // 商品ID
	Size      string    `gorm:"type:varchar(20);not null" json:"size"`                     // 尺码
	Color     string    `gorm:"type:varchar(40);not null" json:"color"`                    // 颜色
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`        // 标价
	SalePrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"sale_price"`   // 促销价（0 表示无促销）
	Stock     int       `gorm:"not null;default:0" json:"stock"`                           // 可用库存（加购即预占）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                // 更新时间

	// 关联
	Product *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 所属商品
	Images  []VariationImage `gorm:"foreignKey:ProductVariationID" json:"images"`   // 图片列表
}

// TableName 指定表名
func (ProductVariation) TableName() string {
	return "product_variations"
}

// BeforeCreate 生成主键
func (v *ProductVariation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = newID()
	}
	return nil
}

// EffectivePrice 生效单价：促销价大于 0 时取促销价，否则取标价
func (v *ProductVariation) EffectivePrice() Money {
	if v.SalePrice.IsPositive() {
		return v.SalePrice
	}
	return v.Price
}
