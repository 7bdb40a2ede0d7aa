package public

import (
	"strings"

	"github.com/velora-next/internal/http/response"
	"github.com/velora-next/internal/models"
	"github.com/velora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	VariationID string `json:"variation_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 更新购物车项请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// MergeCartRequest 游客购物车合并请求
type MergeCartRequest struct {
	GuestID string `json:"guest_id" binding:"required"`
}

// GetCart 获取当前归属者的购物车
// 尚无激活购物车时返回空聚合，不视为错误。
func (h *Handler) GetCart(c *gin.Context) {
	owner, ok := resolveCartOwner(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetCart(owner.Identifier, owner.IsGuest)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	if cart == nil {
		response.Success(c, emptyCartView())
		return
	}
	response.Success(c, cart)
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	owner, ok := resolveCartOwner(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	var cart *models.Cart
	var err error
	if owner.IsGuest {
		cart, err = h.CartService.AddItemToGuestCart(service.GuestCartInput{
			GuestID:     owner.Identifier,
			VariationID: req.VariationID,
			Quantity:    req.Quantity,
		})
	} else {
		cart, err = h.CartService.AddItem(service.AddToCartInput{
			VariationID: req.VariationID,
			Quantity:    req.Quantity,
		}, owner.Identifier, false)
	}
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, cart)
}

// UpdateCartItem 更新购物车项数量
// 数量降为 0 等价于移除该条目。
func (h *Handler) UpdateCartItem(c *gin.Context) {
	if _, ok := resolveCartOwner(c); !ok {
		return
	}
	itemID := strings.TrimSpace(c.Param("item_id"))
	if itemID == "" {
		respondError(c, response.CodeBadRequest, "cart item id required", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	cart, err := h.CartService.UpdateItem(service.UpdateCartItemInput{
		ItemID:   itemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, cart)
}

// DeleteCartItem 移除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	if _, ok := resolveCartOwner(c); !ok {
		return
	}
	itemID := strings.TrimSpace(c.Param("item_id"))
	if itemID == "" {
		respondError(c, response.CodeBadRequest, "cart item id required", nil)
		return
	}
	cart, err := h.CartService.RemoveItem(service.RemoveFromCartInput{ItemID: itemID})
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	owner, ok := resolveCartOwner(c)
	if !ok {
		return
	}
	cart, err := h.CartService.ClearCart(owner.Identifier, owner.IsGuest)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, cart)
}

// MergeCart 将游客购物车合并进当前用户购物车
func (h *Handler) MergeCart(c *gin.Context) {
	userID := strings.TrimSpace(c.GetHeader(headerUserID))
	if userID == "" {
		respondError(c, response.CodeBadRequest, "user id required for merge", nil)
		return
	}
	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	cart, err := h.CartService.MergeGuestCart(service.MergeGuestCartInput{
		GuestID: req.GuestID,
		UserID:  userID,
	})
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, cart)
}

func emptyCartView() gin.H {
	return gin.H{
		"items":        []models.CartItem{},
		"total_items":  0,
		"total_amount": models.NewMoneyFromInt(0),
		"status":       "",
	}
}
