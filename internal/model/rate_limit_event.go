package model

import "time"

// RateLimitEvent 评论触发限流后的监控事件（异步落库，丢失可接受）
type RateLimitEvent struct {
    ID        string    `gorm:"primaryKey;type:varchar(36)"`
    UserID    string    `gorm:"type:varchar(36);index:idx_rlevent_user"`
    CommentID string    `gorm:"type:varchar(36)"`
    LimitType string    `gorm:"type:varchar(32);index"`
    CreatedAt time.Time `gorm:"index"`
}

func (RateLimitEvent) TableName() string { return "rate_limit_events" }
