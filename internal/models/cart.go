package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/velora-next/internal/constants"
)

// Cart 购物车主表
// 归属方为 user_id 或 guest_id 之一（ACTIVE 状态下二者有且仅有其一）。
// total_amount / total_items 为派生字段，只由重算流程写入。
type Cart struct {
	ID           string    `gorm:"type:varchar(36);primarykey" json:"id"`                          // 主键
	UserID       *string   `gorm:"type:varchar(64);index" json:"user_id,omitempty"`                // 用户ID
	GuestID      *string   `gorm:"type:varchar(64);index" json:"guest_id,omitempty"`               // 游客ID
	Status       string    `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"` // 状态（ACTIVE/COMPLETED）
	TotalAmount  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`      // 合计金额（派生）
	TotalItems   int       `gorm:"not null;default:0" json:"total_items"`                          // 合计件数（派生）
	LastActivity time.Time `gorm:"index" json:"last_activity"`                                     // 最近活动时间
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                     // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// BeforeCreate 生成主键并补齐默认值
func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Status == "" {
		c.Status = constants.CartStatusActive
	}
	if c.LastActivity.IsZero() {
		c.LastActivity = time.Now()
	}
	return nil
}

// IsActive 是否处于激活状态
func (c *Cart) IsActive() bool {
	return c != nil && c.Status == constants.CartStatusActive
}
