package response

// AppError 带业务状态码的错误包装
// 处理器记录日志时用它把响应码、面向用户的消息和底层原因绑在一起；
// Unwrap 保留原因链，errors.Is/As 仍可命中底层错误。
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 把底层错误包装为 AppError
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
