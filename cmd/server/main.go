package main

import (
    "context"
    "errors"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/forum-core/config"
    _ "github.com/d60-Lab/forum-core/docs"
    "github.com/d60-Lab/forum-core/internal/api"
    "github.com/d60-Lab/forum-core/internal/api/handler"
    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/ratelimit"
    "github.com/d60-Lab/forum-core/internal/recommend"
    "github.com/d60-Lab/forum-core/internal/repository"
    "github.com/d60-Lab/forum-core/internal/service"
    "github.com/d60-Lab/forum-core/pkg/database"
    "github.com/d60-Lab/forum-core/pkg/logger"
    "github.com/d60-Lab/forum-core/pkg/tracer"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func main() {
    cfg := must(config.Load())
    if err := logger.Init(cfg.Server.Mode); err != nil {
        panic(err)
    }
    defer logger.Sync()

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            logger.Warn("sentry init failed", zap.Error(err))
        }
        defer sentry.Flush(2 * time.Second)
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    shutdownTracer := must(tracer.Init(ctx, "forum-core", cfg.Trace.Endpoint))
    defer func() { _ = shutdownTracer(context.Background()) }()

    db := must(database.InitDB(cfg))
    if err := db.AutoMigrate(
        &model.User{},
        &model.Post{},
        &model.Comment{},
        &model.Vote{},
        &model.ModeratorAction{},
        &model.PostRecommendation{},
        &model.RateLimitEvent{},
        &model.DatabaseMetadata{},
    ); err != nil {
        panic(err)
    }

    rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
    defer func() { _ = rdb.Close() }()

    activityRepo := repository.NewActivityRepository(db)
    modActionRepo := repository.NewModeratorActionRepository(db)
    postRepo := repository.NewPostRepository(db)
    voteRepo := repository.NewVoteRepository(db)
    recRepo := repository.NewRecommendationRepository(db)
    metaRepo := repository.NewMetadataRepository(db)

    recorder := service.NewRecorder(recRepo, db, 10000)
    stopRecorder := recorder.Start(4)
    defer func() { _ = stopRecorder(context.Background()) }()

    inflation := service.NewKarmaInflationWorker(postRepo, metaRepo, time.Duration(cfg.Karma.InflationRefreshHours)*time.Hour)
    stopInflation := inflation.Start()
    defer func() { _ = stopInflation(context.Background()) }()

    eval := ratelimit.NewEvaluator(ratelimit.ConfigFrom(cfg.RateLimit))
    gate := ratelimit.NewGate(eval, activityRepo, modActionRepo, postRepo, recorder)

    cache := recommend.NewFeedCache(rdb, time.Duration(cfg.Recommend.FeedCacheTTLSeconds)*time.Second)
    recSvc := recommend.NewService(postRepo, inflation, recorder, cache)

    content := service.NewContentService(db, gate)
    votes := service.NewVoteService(voteRepo, postRepo)

    h := handler.New(content, votes, recSvc)
    router := api.NewRouter(cfg, db, h)

    srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
    go func() {
        logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Error("server exited", zap.Error(err))
            stop()
        }
    }()

    <-ctx.Done()
    logger.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}
