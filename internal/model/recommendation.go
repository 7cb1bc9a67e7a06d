package model

import "time"

// PostRecommendation 推荐曝光记录（按 user+post 去重计数）
type PostRecommendation struct {
    ID     string `gorm:"primaryKey;type:varchar(36)"`
    UserID string `gorm:"type:varchar(36);index:idx_rec_user;uniqueIndex:ux_rec_user_post"`
    PostID string `gorm:"type:varchar(36);index:idx_rec_post;uniqueIndex:ux_rec_user_post"`
    // 复合唯一键，计数只增不减
    // ux_rec_user_post = (user_id, post_id)
    StrategyName        string    `gorm:"type:varchar(32)"`
    RecommendationCount int       `gorm:"not null;default:0"`
    LastRecommendedAt   time.Time
    CreatedAt           time.Time
}

func (PostRecommendation) TableName() string { return "post_recommendations" }
