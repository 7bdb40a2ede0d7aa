package models

import (
	"time"

	"gorm.io/gorm"
)

// VariationImage 规格图片表（图片由外部媒体服务托管，这里只存 URL）
type VariationImage struct {
	ID                 string    `gorm:"type:varchar(36);primarykey" json:"id"`                       // 主键
	ProductVariationID string    `gorm:"type:varchar(36);not null;index" json:"product_variation_id"` // 规格ID
	URL                string    `gorm:"type:varchar(500);not null" json:"url"`                       // 图片地址
	SortOrder          int       `gorm:"default:0" json:"sort_order"`                                 // 排序
	CreatedAt          time.Time `json:"created_at"`                                                  // 创建时间
}

// TableName 指定表名
func (VariationImage) TableName() string {
	return "variation_images"
}

// BeforeCreate 生成主键
func (i *VariationImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = newID()
	}
	return nil
}
