package middleware

import (
    "net/http"
    "sync"

    "github.com/gin-gonic/gin"
    "golang.org/x/time/rate"
)

// ClientLimiter 按客户端 IP 的进程内令牌桶，挡住读接口被刷。
// 业务侧（发帖/评论）的策略限流在 internal/ratelimit，与这层无关。
type ClientLimiter struct {
    mu       sync.Mutex
    limiters map[string]*rate.Limiter
    rps      rate.Limit
    burst    int
}

func NewClientLimiter(rps float64, burst int) *ClientLimiter {
    if rps <= 0 {
        rps = 10
    }
    if burst <= 0 {
        burst = 20
    }
    return &ClientLimiter{limiters: make(map[string]*rate.Limiter), rps: rate.Limit(rps), burst: burst}
}

func (l *ClientLimiter) limiterFor(key string) *rate.Limiter {
    l.mu.Lock()
    defer l.mu.Unlock()
    lim, ok := l.limiters[key]
    if !ok {
        lim = rate.NewLimiter(l.rps, l.burst)
        l.limiters[key] = lim
    }
    return lim
}

func (l *ClientLimiter) Handler() gin.HandlerFunc {
    return func(c *gin.Context) {
        if !l.limiterFor(c.ClientIP()).Allow() {
            c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
            return
        }
        c.Next()
    }
}
