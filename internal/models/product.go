package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          string         `gorm:"type:varchar(36);primarykey" json:"id"`   // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`       // 分类ID
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`        // 唯一标识
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`  // 商品名称
	Description string         `gorm:"type:text" json:"description"`            // 商品描述
	IsActive    bool           `gorm:"not null;index" json:"is_active"`         // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`       // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间

	// 关联
	Category   Category           `gorm:"foreignKey:CategoryID" json:"category,omitempty"`  // 分类信息
	Variations []ProductVariation `gorm:"foreignKey:ProductID" json:"variations,omitempty"` // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// BeforeCreate 生成主键
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}
