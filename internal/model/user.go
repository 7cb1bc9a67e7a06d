package model

import "time"

// 原文论坛的特权组，成组员则跳过限流
const (
    GroupSunshineRegiment       = "sunshineRegiment"
    GroupCanBypassPostRateLimit = "canBypassPostRateLimit"
)

// User 论坛用户（本服务只读；karma 可为负）
type User struct {
    ID        string   `gorm:"primaryKey;type:varchar(36)"`
    Username  string   `gorm:"type:varchar(64);uniqueIndex"`
    Email     string   `gorm:"type:varchar(128)"`
    Karma     int      `gorm:"not null;default:0"`
    IsAdmin   bool     `gorm:"not null;default:false"`
    Groups    []string `gorm:"serializer:json;type:text"`
    CreatedAt time.Time
    UpdatedAt time.Time
}

func (User) TableName() string { return "users" }

// IsMemberOf 判断用户是否在指定用户组
func (u *User) IsMemberOf(group string) bool {
    for _, g := range u.Groups {
        if g == group {
            return true
        }
    }
    return false
}
