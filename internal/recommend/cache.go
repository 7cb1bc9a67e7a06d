package recommend

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/d60-Lab/forum-core/internal/model"
)

// FeedCache 未登录推荐结果的 redis 缓存。
// 登录用户有曝光计数参与排序，不走缓存。
type FeedCache struct {
    rdb *redis.Client
    ttl time.Duration
}

func NewFeedCache(rdb *redis.Client, ttl time.Duration) *FeedCache {
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }
    return &FeedCache{rdb: rdb, ttl: ttl}
}

func feedKey(spec Spec, count int) string {
    return fmt.Sprintf("rec:anon:%s:%s:%d", spec.Name, spec.PostID, count)
}

// Get 命中返回 (posts, true)；未命中或反序列化失败按 miss 处理
func (c *FeedCache) Get(ctx context.Context, spec Spec, count int) ([]*model.Post, bool) {
    data, err := c.rdb.Get(ctx, feedKey(spec, count)).Bytes()
    if err != nil {
        return nil, false
    }
    var posts []*model.Post
    if err := json.Unmarshal(data, &posts); err != nil {
        return nil, false
    }
    return posts, true
}

// Set 写缓存失败静默忽略（缓存只是捷径）
func (c *FeedCache) Set(ctx context.Context, spec Spec, count int, posts []*model.Post) {
    payload, err := json.Marshal(posts)
    if err != nil {
        return
    }
    _ = c.rdb.Set(ctx, feedKey(spec, count), payload, c.ttl).Err()
}
