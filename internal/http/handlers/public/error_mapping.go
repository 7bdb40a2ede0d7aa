package public

import (
	"errors"

	handlershared "github.com/velora-next/internal/http/handlers/shared"
	"github.com/velora-next/internal/http/response"
	"github.com/velora-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartValidationErrorRules = []mappedHandlerError{
	{target: service.ErrIdentifierRequired, code: response.CodeBadRequest, msg: "cart owner identifier required"},
	{target: service.ErrVariationIDRequired, code: response.CodeBadRequest, msg: "product variation id required"},
	{target: service.ErrItemIDRequired, code: response.CodeBadRequest, msg: "cart item id required"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "quantity must be greater than 0"},
	{target: service.ErrMergeIDsRequired, code: response.CodeBadRequest, msg: "guest id and user id required"},
}

var cartLookupErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
	{target: service.ErrVariationNotFound, code: response.CodeNotFound, msg: "product variation not found"},
}

var cartStockErrorRules = []mappedHandlerError{
	{target: service.ErrInsufficientStock, code: response.CodeConflict, msg: "insufficient stock"},
}

var cartMutationErrorRules = concatMappedHandlerErrors(
	cartValidationErrorRules,
	cartLookupErrorRules,
	cartStockErrorRules,
)

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

func respondCartMutationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "cart operation failed")
}
