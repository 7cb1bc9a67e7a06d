package model

import "time"

// DatabaseMetadata 进程间共享的杂项元数据（如 karma 通胀序列）
type DatabaseMetadata struct {
    ID        string `gorm:"primaryKey;type:varchar(36)"`
    Name      string `gorm:"type:varchar(64);uniqueIndex"`
    Value     string `gorm:"type:text"` // JSON
    UpdatedAt time.Time
}

func (DatabaseMetadata) TableName() string { return "database_metadata" }
