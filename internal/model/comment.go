package model

import "time"

// Comment 评论，挂在某个帖子下
type Comment struct {
    ID        string    `gorm:"primaryKey;type:varchar(36)"`
    AuthorID  string    `gorm:"type:varchar(36);index:idx_comment_author_created"`
    PostID    string    `gorm:"type:varchar(36);index:idx_comment_post"`
    Payload   string    `gorm:"type:text"`
    CreatedAt time.Time `gorm:"index:idx_comment_author_created"`
}

func (Comment) TableName() string { return "comments" }
