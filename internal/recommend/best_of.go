package recommend

import (
    "context"
    "sort"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/repository"
)

// 同一个帖子对同一用户曝光到这个次数后就不再进 bestOf 候选
const maxRecommendationCount = 3

// bestOf 先超采样再做通胀调整排序
const bestOfOversample = 3

// BestOfStrategy 全站高分帖，分数按 karma 通胀序列归一化
type BestOfStrategy struct {
    posts    repository.PostRepository
    adjuster ScoreAdjuster // 可为 nil（因子视为 1）
}

func NewBestOfStrategy(posts repository.PostRepository, adjuster ScoreAdjuster) *BestOfStrategy {
    return &BestOfStrategy{posts: posts, adjuster: adjuster}
}

func (s *BestOfStrategy) Recommend(ctx context.Context, user *model.User, count int, spec Spec) ([]*model.Post, error) {
    userID := ""
    if user != nil {
        userID = user.ID
    }
    candidates, err := s.posts.TopByScore(ctx, spec.PostID, userID, maxRecommendationCount, count*bestOfOversample)
    if err != nil {
        return nil, err
    }
    if s.adjuster != nil {
        sort.SliceStable(candidates, func(i, j int) bool {
            return s.adjusted(candidates[i]) > s.adjusted(candidates[j])
        })
    }
    if len(candidates) > count {
        candidates = candidates[:count]
    }
    return candidates, nil
}

func (s *BestOfStrategy) adjusted(p *model.Post) float64 {
    factor := 1.0
    if p.PostedAt != nil {
        factor = s.adjuster.FactorAt(*p.PostedAt)
    }
    return float64(p.BaseScore) * factor
}
