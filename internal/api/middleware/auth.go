package middleware

import (
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "gorm.io/gorm"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/pkg/response"
)

const currentUserKey = "currentUser"

// Identity 解析 Bearer token 并加载当前用户。
// 没带 token 按未登录放行（推荐接口允许匿名）；带了但非法则 401。
// token 的签发在别处，这里只做校验与取用户。
func Identity(db *gorm.DB, secret string) gin.HandlerFunc {
    return func(c *gin.Context) {
        header := c.GetHeader("Authorization")
        if header == "" {
            c.Next()
            return
        }
        raw := strings.TrimPrefix(header, "Bearer ")
        token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
            if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                return nil, jwt.ErrSignatureInvalid
            }
            return []byte(secret), nil
        })
        if err != nil || !token.Valid {
            response.Unauthorized(c, "invalid token")
            c.Abort()
            return
        }
        sub, err := token.Claims.GetSubject()
        if err != nil || sub == "" {
            response.Unauthorized(c, "invalid token subject")
            c.Abort()
            return
        }
        var user model.User
        if err := db.WithContext(c.Request.Context()).Where("id = ?", sub).First(&user).Error; err != nil {
            response.Unauthorized(c, "unknown user")
            c.Abort()
            return
        }
        c.Set(currentUserKey, &user)
        c.Next()
    }
}

// CurrentUser 取当前登录用户；未登录返回 nil
func CurrentUser(c *gin.Context) *model.User {
    if v, ok := c.Get(currentUserKey); ok {
        if u, ok := v.(*model.User); ok {
            return u
        }
    }
    return nil
}
