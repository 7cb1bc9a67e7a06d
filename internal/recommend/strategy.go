package recommend

import (
    "context"
    "errors"
    "time"

    "github.com/d60-Lab/forum-core/internal/model"
)

// StrategyName 推荐策略枚举
type StrategyName string

const (
    StrategyMoreFromTag    StrategyName = "moreFromTag"
    StrategyMoreFromAuthor StrategyName = "moreFromAuthor"
    StrategyBestOf         StrategyName = "bestOf"
    StrategyCollabFilter   StrategyName = "collabFilter"
)

// AllStrategies 注册顺序即 fallthrough 的兜底顺序（跨请求确定）
var AllStrategies = []StrategyName{
    StrategyMoreFromTag,
    StrategyMoreFromAuthor,
    StrategyBestOf,
    StrategyCollabFilter,
}

var ErrUnknownStrategy = errors.New("unknown recommendation strategy")

// Spec 一次推荐请求的参数
type Spec struct {
    Name StrategyName `json:"name"`
    // PostID 种子帖（按作者/标签/协同过滤时必填）
    PostID string `json:"post_id"`
    // ForceLoggedOut 以未登录视角出结果（预览用）
    ForceLoggedOut bool `json:"force_logged_out"`
}

// Strategy 单个推荐算法：返回 ≤ count 条候选，候选池枯竭不算错误
type Strategy interface {
    Recommend(ctx context.Context, user *model.User, count int, spec Spec) ([]*model.Post, error)
}

// ScoreAdjuster 帖子分数的时间归一化因子（karma 通胀序列）
type ScoreAdjuster interface {
    FactorAt(postedAt time.Time) float64
}
