package model

import "time"

// Vote 赞同票（协同过滤的输入信号）
type Vote struct {
    ID     string `gorm:"primaryKey;type:varchar(36)"`
    UserID string `gorm:"type:varchar(36);index:idx_vote_user;index:idx_vote_pair,unique;not null"`
    PostID string `gorm:"type:varchar(36);not null;index:idx_vote_post;index:idx_vote_pair,unique"`
    // 复合唯一键，避免重复投票
    // idx_vote_pair = (user_id, post_id)
    Power     int `gorm:"not null;default:1"`
    CreatedAt time.Time
}

func (Vote) TableName() string { return "votes" }
