package service

import "errors"

// 校验类错误：在事务开启前拒绝，不进入重试
var (
	ErrIdentifierRequired  = errors.New("owner identifier is required")
	ErrVariationIDRequired = errors.New("product variation id is required")
	ErrItemIDRequired      = errors.New("cart item id is required")
	ErrInvalidQuantity     = errors.New("quantity must be greater than 0")
	ErrMergeIDsRequired    = errors.New("guest id and user id are required")
)

// 未命中类错误：立即返回，不重试（重试不会让缺失的行出现）
var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrVariationNotFound = errors.New("product variation not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
)

// ErrInsufficientStock 库存不足：用户可感知，仅随通用事务重试
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrCartTxFailed 事务在重试耗尽后仍失败
var ErrCartTxFailed = errors.New("cart transaction failed")
