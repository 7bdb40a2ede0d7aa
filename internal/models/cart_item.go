package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem 购物车项
// price 为加入/重算时刻的生效单价快照，不直接引用规格当前价格。
type CartItem struct {
	ID                 string    `gorm:"type:varchar(36);primarykey" json:"id"`                                                   // 主键
	CartID             string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_item_variation" json:"cart_id"`            // 购物车ID
	ProductID          string    `gorm:"type:varchar(36);not null;index" json:"product_id"`                                       // 商品ID
	ProductVariationID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_item_variation" json:"product_variation_id"` // 规格ID
	Quantity           int       `gorm:"not null" json:"quantity"`                                                                // 数量（恒大于 0）
	Price              Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                                      // 单价快照
	CreatedAt          time.Time `gorm:"index" json:"created_at"`                                                                 // 创建时间
	UpdatedAt          time.Time `json:"updated_at"`                                                                              // 更新时间

	ProductVariation *ProductVariation `gorm:"foreignKey:ProductVariationID" json:"variation,omitempty"` // 关联规格
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// BeforeCreate 生成主键
func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return nil
}
