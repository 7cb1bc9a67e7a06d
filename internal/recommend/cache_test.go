package recommend

import (
    "context"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/d60-Lab/forum-core/internal/model"
)

func setupCache(t *testing.T) (*FeedCache, *miniredis.Miniredis) {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    return NewFeedCache(rdb, time.Minute), mr
}

func TestFeedCacheRoundTrip(t *testing.T) {
    cache, _ := setupCache(t)
    ctx := context.Background()
    spec := Spec{Name: StrategyBestOf, PostID: "seed"}

    _, ok := cache.Get(ctx, spec, 10)
    assert.False(t, ok)

    posts := []*model.Post{{ID: "p1", Title: "one"}, {ID: "p2", Title: "two"}}
    cache.Set(ctx, spec, 10, posts)

    got, ok := cache.Get(ctx, spec, 10)
    require.True(t, ok)
    require.Len(t, got, 2)
    assert.Equal(t, "p1", got[0].ID)
    assert.Equal(t, "two", got[1].Title)

    // 不同 count 是不同的键
    _, ok = cache.Get(ctx, spec, 5)
    assert.False(t, ok)
}

func TestFeedCacheExpiry(t *testing.T) {
    cache, mr := setupCache(t)
    ctx := context.Background()
    spec := Spec{Name: StrategyBestOf}

    cache.Set(ctx, spec, 3, []*model.Post{{ID: "p1"}})
    mr.FastForward(2 * time.Minute)

    _, ok := cache.Get(ctx, spec, 3)
    assert.False(t, ok)
}

func TestRecommendUsesCacheForAnonymous(t *testing.T) {
    cache, _ := setupCache(t)
    primary := &stubStrategy{posts: []*model.Post{post("p1"), post("p2")}}
    svc := newStubService(nil, map[StrategyName]Strategy{StrategyBestOf: primary})
    svc.cache = cache

    spec := Spec{Name: StrategyBestOf}
    first, err := svc.Recommend(context.Background(), nil, 2, spec)
    require.NoError(t, err)
    require.Len(t, first, 2)

    again, err := svc.Recommend(context.Background(), nil, 2, spec)
    require.NoError(t, err)
    assert.Len(t, again, 2)
    // 第二次命中缓存，策略只被咨询过一次
    assert.Len(t, primary.gotCounts, 1)
}

func TestRecommendSkipsCacheForUser(t *testing.T) {
    cache, _ := setupCache(t)
    primary := &stubStrategy{posts: []*model.Post{post("p1")}}
    svc := newStubService(&memorySink{}, map[StrategyName]Strategy{StrategyBestOf: primary})
    svc.cache = cache

    user := &model.User{ID: "u1"}
    for i := 0; i < 2; i++ {
        _, err := svc.Recommend(context.Background(), user, 1, Spec{Name: StrategyBestOf})
        require.NoError(t, err)
    }
    assert.Len(t, primary.gotCounts, 2)
}
