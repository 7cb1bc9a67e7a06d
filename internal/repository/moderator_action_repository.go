package repository

import (
    "context"
    "time"

    "gorm.io/gorm"

    "github.com/d60-Lab/forum-core/internal/model"
)

// ModeratorActionRepository 版主处置查询（本服务只读）
type ModeratorActionRepository interface {
    // ActiveRateLimit 返回当前仍生效的整体限流档位（最新优先）；没有则 nil
    ActiveRateLimit(ctx context.Context, userID string, now time.Time) (*model.ModeratorAction, error)
    // HasActiveOfType 指定档位当前是否生效
    HasActiveOfType(ctx context.Context, userID, actionType string, now time.Time) (bool, error)
}

type moderatorActionRepository struct{ db *gorm.DB }

func NewModeratorActionRepository(db *gorm.DB) ModeratorActionRepository {
    return &moderatorActionRepository{db: db}
}

func (r *moderatorActionRepository) ActiveRateLimit(ctx context.Context, userID string, now time.Time) (*model.ModeratorAction, error) {
    var actions []*model.ModeratorAction
    err := r.db.WithContext(ctx).
        Where("user_id = ? AND type IN ?", userID, model.RestrictivePostCommentTypes).
        Order("created_at DESC").
        Find(&actions).Error
    if err != nil {
        return nil, err
    }
    for _, a := range actions {
        if a.ActiveAt(now) {
            return a, nil
        }
    }
    return nil, nil
}

func (r *moderatorActionRepository) HasActiveOfType(ctx context.Context, userID, actionType string, now time.Time) (bool, error) {
    var actions []*model.ModeratorAction
    err := r.db.WithContext(ctx).
        Where("user_id = ? AND type = ?", userID, actionType).
        Order("created_at DESC").
        Find(&actions).Error
    if err != nil {
        return false, err
    }
    for _, a := range actions {
        if a.ActiveAt(now) {
            return true, nil
        }
    }
    return false, nil
}
