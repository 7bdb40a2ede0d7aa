package public

import (
	"strings"

	"github.com/velora-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	headerUserID  = "X-User-ID"
	headerGuestID = "X-Guest-ID"
)

// cartOwner 请求方的购物车归属标识。
// 登录用户以 X-User-ID 标识，游客以 X-Guest-ID 标识；用户标识优先。
type cartOwner struct {
	Identifier string
	IsGuest    bool
}

func resolveCartOwner(c *gin.Context) (cartOwner, bool) {
	if userID := strings.TrimSpace(c.GetHeader(headerUserID)); userID != "" {
		return cartOwner{Identifier: userID, IsGuest: false}, true
	}
	if guestID := strings.TrimSpace(c.GetHeader(headerGuestID)); guestID != "" {
		return cartOwner{Identifier: guestID, IsGuest: true}, true
	}
	respondError(c, response.CodeBadRequest, "cart owner identifier required", nil)
	return cartOwner{}, false
}
