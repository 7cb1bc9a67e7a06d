package database

import (
    "fmt"

    "gorm.io/driver/postgres"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/forum-core/config"
)

// InitDB 按配置打开数据库连接（postgres 为主，sqlite 供本地/测试）
func InitDB(cfg *config.Config) (*gorm.DB, error) {
    gc := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
    switch cfg.Database.Driver {
    case "postgres":
        return gorm.Open(postgres.Open(cfg.Database.DSN), gc)
    case "sqlite":
        return gorm.Open(sqlite.Open(cfg.Database.DSN), gc)
    default:
        return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
    }
}
