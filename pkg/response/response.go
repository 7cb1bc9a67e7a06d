package response

import (
    "net/http"

    "github.com/getsentry/sentry-go"
    "github.com/gin-gonic/gin"
    "go.uber.org/zap"

    "github.com/d60-Lab/forum-core/pkg/logger"
)

// Response 统一返回结构
type Response struct {
    Code    int         `json:"code"`
    Message string      `json:"message"`
    Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
    c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

func BadRequest(c *gin.Context, msg string) {
    c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
    c.JSON(http.StatusUnauthorized, Response{Code: http.StatusUnauthorized, Message: msg})
}

// TooManyRequests 限流拒绝：reason 为策略原因码，data 携带 next_eligible_at 等
func TooManyRequests(c *gin.Context, reason, msg string, data interface{}) {
    c.JSON(http.StatusTooManyRequests, Response{Code: http.StatusTooManyRequests, Message: reason + ": " + msg, Data: data})
}

// InternalError 内部错误统一上报 sentry（策略类拒绝不要走这里）
func InternalError(c *gin.Context, err error) {
    logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
    sentry.CaptureException(err)
    c.JSON(http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Message: "internal error"})
}
