package repository

import (
    "context"
    "errors"
    "time"

    "gorm.io/gorm"
)

// ActivityKind 活动类型：发帖 / 评论
type ActivityKind string

const (
    ActivityPosts    ActivityKind = "posts"
    ActivityComments ActivityKind = "comments"
)

// ActivityFilter 可选过滤：限定某个帖子下、排除草稿
type ActivityFilter struct {
    PostID        string
    ExcludeDrafts bool
}

// ActivityRepository 统一的时间窗活动查询（user, kind, n, window, filter）
// 所有限流规则的取数都走这一个契约，不做散落的点查
type ActivityRepository interface {
    // CountInWindow 统计窗口内的活动条数
    CountInWindow(ctx context.Context, userID string, kind ActivityKind, window time.Duration, f ActivityFilter) (int64, error)
    // NthMostRecentAt 返回窗口内第 n 新一条活动的时间；不足 n 条返回 nil
    NthMostRecentAt(ctx context.Context, userID string, kind ActivityKind, n int, window time.Duration, f ActivityFilter) (*time.Time, error)
}

type activityRepository struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) ActivityRepository { return &activityRepository{db: db} }

func (r *activityRepository) scoped(ctx context.Context, userID string, kind ActivityKind, window time.Duration, f ActivityFilter) *gorm.DB {
    cutoff := time.Now().Add(-window)
    q := r.db.WithContext(ctx).Table(string(kind)).
        Where("author_id = ?", userID).
        Where("created_at > ?", cutoff)
    if kind == ActivityPosts && f.ExcludeDrafts {
        q = q.Where("draft = ?", false)
    }
    if kind == ActivityComments && f.PostID != "" {
        q = q.Where("post_id = ?", f.PostID)
    }
    return q
}

func (r *activityRepository) CountInWindow(ctx context.Context, userID string, kind ActivityKind, window time.Duration, f ActivityFilter) (int64, error) {
    var cnt int64
    err := r.scoped(ctx, userID, kind, window, f).Count(&cnt).Error
    return cnt, err
}

func (r *activityRepository) NthMostRecentAt(ctx context.Context, userID string, kind ActivityKind, n int, window time.Duration, f ActivityFilter) (*time.Time, error) {
    if n < 1 {
        n = 1
    }
    var ts time.Time
    err := r.scoped(ctx, userID, kind, window, f).
        Select("created_at").
        Order("created_at DESC").
        Offset(n - 1).
        Limit(1).
        Scan(&ts).Error
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, nil
        }
        return nil, err
    }
    if ts.IsZero() {
        return nil, nil
    }
    return &ts, nil
}
