package recommend

import (
    "context"
    "fmt"

    "go.uber.org/zap"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/repository"
    "github.com/d60-Lab/forum-core/pkg/logger"
)

// ImpressionSink 曝光记录的异步出口（尽力而为，失败不回传）
type ImpressionSink interface {
    EnqueueImpression(userID, postID, strategyName string)
}

// Service 推荐编排：按优先级串行跑各策略，跨策略去重、不足兜底
type Service struct {
    // name → 实现的派发表，构造后只读
    strategies map[StrategyName]Strategy

    sink  ImpressionSink
    cache *FeedCache // 可为 nil；只服务未登录请求
}

func NewService(posts repository.PostRepository, adjuster ScoreAdjuster, sink ImpressionSink, cache *FeedCache) *Service {
    return &Service{
        strategies: map[StrategyName]Strategy{
            StrategyMoreFromTag:    NewMoreFromTagStrategy(posts),
            StrategyMoreFromAuthor: NewMoreFromAuthorStrategy(posts),
            StrategyBestOf:         NewBestOfStrategy(posts, adjuster),
            StrategyCollabFilter:   NewCollabFilterStrategy(posts),
        },
        sink:  sink,
        cache: cache,
    }
}

func (s *Service) strategyFor(name StrategyName) (Strategy, error) {
    strat, ok := s.strategies[name]
    if !ok {
        return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
    }
    return strat, nil
}

// strategyStack 请求的策略排最前，其余按注册顺序兜底
func strategyStack(primary StrategyName) []StrategyName {
    stack := make([]StrategyName, 0, len(AllStrategies))
    stack = append(stack, primary)
    for _, name := range AllStrategies {
        if name != primary {
            stack = append(stack, name)
        }
    }
    return stack
}

// Recommend 返回 ≤ count 条、按 id 全局去重的有序帖子列表。
// 结果可以不足 count（候选枯竭），不补齐也不报错。
func (s *Service) Recommend(ctx context.Context, user *model.User, count int, spec Spec) ([]*model.Post, error) {
    // 未知策略名直接拒绝，不做任何部分工作
    if _, err := s.strategyFor(spec.Name); err != nil {
        return nil, err
    }
    if spec.ForceLoggedOut {
        user = nil
    }

    if user == nil && s.cache != nil {
        if posts, ok := s.cache.Get(ctx, spec, count); ok {
            return posts, nil
        }
    }

    posts := make([]*model.Post, 0, count)
    seen := make(map[string]struct{}, count)
    remaining := count

    for _, name := range strategyStack(spec.Name) {
        if remaining <= 0 {
            break
        }
        strat, err := s.strategyFor(name)
        if err != nil {
            return nil, err
        }
        logger.Debug("recommending", zap.String("strategy", string(name)), zap.String("post", spec.PostID), zap.Int("remaining", remaining))

        batch, err := strat.Recommend(ctx, user, remaining, spec)
        if err != nil {
            return nil, err
        }
        for _, p := range batch {
            if _, dup := seen[p.ID]; dup {
                continue
            }
            if remaining <= 0 {
                break
            }
            seen[p.ID] = struct{}{}
            posts = append(posts, p)
            remaining--
            if user != nil && s.sink != nil {
                s.sink.EnqueueImpression(user.ID, p.ID, string(name))
            }
        }
    }

    if user == nil && s.cache != nil {
        s.cache.Set(ctx, spec, count, posts)
    }
    return posts, nil
}
