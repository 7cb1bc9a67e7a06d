package repository

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/forum-core/internal/model"
)

// RecommendationRepository 曝光计数的 upsert（(user, post) 唯一，计数只增）
type RecommendationRepository interface {
    UpsertImpression(ctx context.Context, userID, postID, strategyName string) error
    Get(ctx context.Context, userID, postID string) (*model.PostRecommendation, error)
}

type recommendationRepository struct{ db *gorm.DB }

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
    return &recommendationRepository{db: db}
}

func (r *recommendationRepository) UpsertImpression(ctx context.Context, userID, postID, strategyName string) error {
    now := time.Now()
    rec := &model.PostRecommendation{
        ID:                  uuid.New().String(),
        UserID:              userID,
        PostID:              postID,
        StrategyName:        strategyName,
        RecommendationCount: 1,
        LastRecommendedAt:   now,
        CreatedAt:           now,
    }
    // 冲突时累加计数并覆盖最近一次曝光的策略名
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{
        Columns: []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
        DoUpdates: clause.Assignments(map[string]interface{}{
            "strategy_name":        strategyName,
            "recommendation_count": gorm.Expr("post_recommendations.recommendation_count + 1"),
            "last_recommended_at":  now,
        }),
    }).Create(rec).Error
}

func (r *recommendationRepository) Get(ctx context.Context, userID, postID string) (*model.PostRecommendation, error) {
    var rec model.PostRecommendation
    err := r.db.WithContext(ctx).
        Where("user_id = ? AND post_id = ?", userID, postID).
        First(&rec).Error
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, nil
        }
        return nil, err
    }
    return &rec, nil
}
