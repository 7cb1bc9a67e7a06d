package logger

import (
    "go.uber.org/zap"
)

var log = zap.NewNop()

// Init 初始化全局 logger；mode=debug 走开发配置
func Init(mode string) error {
    var (
        l   *zap.Logger
        err error
    )
    if mode == "debug" {
        l, err = zap.NewDevelopment()
    } else {
        l, err = zap.NewProduction()
    }
    if err != nil {
        return err
    }
    log = l
    return nil
}

func L() *zap.Logger { return log }

func Debug(msg string, fields ...zap.Field) { log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }

func Sync() { _ = log.Sync() }
