package api

import (
    "github.com/gin-contrib/gzip"
    "github.com/gin-gonic/gin"
    "github.com/gin-gonic/gin/binding"
    "github.com/go-playground/validator/v10"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
    "gorm.io/gorm"

    "github.com/d60-Lab/forum-core/config"
    "github.com/d60-Lab/forum-core/internal/api/handler"
    "github.com/d60-Lab/forum-core/internal/api/middleware"
    "github.com/d60-Lab/forum-core/internal/recommend"
)

// NewRouter 组装 gin 引擎：压缩、trace、身份、边缘限流、swagger
func NewRouter(cfg *config.Config, db *gorm.DB, h *handler.Handler) *gin.Engine {
    gin.SetMode(cfg.Server.Mode)

    if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
        _ = v.RegisterValidation("strategy", validStrategyName)
    }

    r := gin.New()
    r.Use(gin.Logger(), gin.Recovery())
    r.Use(gzip.Gzip(gzip.DefaultCompression))
    r.Use(otelgin.Middleware("forum-core"))
    r.Use(middleware.Identity(db, cfg.Auth.JWTSecret))

    edge := middleware.NewClientLimiter(cfg.Recommend.EdgeRPS, cfg.Recommend.EdgeBurst)

    v1 := r.Group("/api/v1")
    {
        v1.POST("/posts", h.CreatePost)
        v1.POST("/posts/:post_id/publish", h.PublishDraft)
        v1.POST("/posts/:post_id/comments", h.CreateComment)
        v1.POST("/posts/:post_id/votes", h.Vote)
        v1.DELETE("/posts/:post_id/votes", h.Unvote)
        v1.GET("/recommendations", edge.Handler(), h.Recommend)
    }

    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
    return r
}

func validStrategyName(fl validator.FieldLevel) bool {
    name := recommend.StrategyName(fl.Field().String())
    for _, s := range recommend.AllStrategies {
        if s == name {
            return true
        }
    }
    return false
}
