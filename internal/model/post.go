package model

import "time"

// Post 帖子（draft 不计入限流；IgnoreRateLimits 放行其下评论）
type Post struct {
    ID               string   `gorm:"primaryKey;type:varchar(36)"`
    AuthorID         string   `gorm:"type:varchar(36);index:idx_post_author"`
    Title            string   `gorm:"type:varchar(256)"`
    Payload          string   `gorm:"type:text"`
    Tags             []string `gorm:"serializer:json;type:text"`
    BaseScore        int      `gorm:"not null;default:0;index:idx_post_score"`
    Draft            bool     `gorm:"not null;default:false;index:idx_post_draft"`
    IgnoreRateLimits bool     `gorm:"not null;default:false"`
    PostedAt         *time.Time `gorm:"index:idx_post_posted"`
    CreatedAt        time.Time
    UpdatedAt        time.Time
}

func (Post) TableName() string { return "posts" }
