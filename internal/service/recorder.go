package service

import (
    "context"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"
    "gorm.io/gorm"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/repository"
    "github.com/d60-Lab/forum-core/pkg/logger"
)

type recordKind int

const (
    kindImpression recordKind = iota + 1
    kindRateLimitEvent
)

type recordJob struct {
    kind      recordKind
    userID    string
    postID    string
    strategy  string
    commentID string
    limitType string
    enqAt     time.Time
}

// Recorder 本地异步落库执行器：曝光计数 upsert 与限流监控事件。
// 两类写入都是尽力而为——队列满了就丢，绝不反压业务请求。
type Recorder struct {
    recs repository.RecommendationRepository
    db   *gorm.DB
    ch   chan recordJob
}

func NewRecorder(recs repository.RecommendationRepository, db *gorm.DB, queueSize int) *Recorder {
    if queueSize <= 0 {
        queueSize = 10000
    }
    return &Recorder{recs: recs, db: db, ch: make(chan recordJob, queueSize)}
}

func (r *Recorder) Start(workers int) func(context.Context) error {
    if workers <= 0 {
        workers = 4
    }
    stopCh := make(chan struct{})
    for i := 0; i < workers; i++ {
        go func() {
            for {
                select {
                case job := <-r.ch:
                    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
                    r.process(ctx, job)
                    cancel()
                case <-stopCh:
                    return
                }
            }
        }()
    }
    return func(ctx context.Context) error {
        close(stopCh)
        // 等待队列自然排空一小段时间
        timeout := time.After(2 * time.Second)
        for {
            select {
            case <-timeout:
                return nil
            default:
                if len(r.ch) == 0 {
                    return nil
                }
                time.Sleep(50 * time.Millisecond)
            }
        }
    }
}

func (r *Recorder) process(ctx context.Context, job recordJob) {
    switch job.kind {
    case kindImpression:
        if err := r.recs.UpsertImpression(ctx, job.userID, job.postID, job.strategy); err != nil {
            logger.Warn("impression upsert failed", zap.String("user", job.userID), zap.String("post", job.postID), zap.Error(err))
        }
    case kindRateLimitEvent:
        ev := &model.RateLimitEvent{
            ID:        uuid.New().String(),
            UserID:    job.userID,
            CommentID: job.commentID,
            LimitType: job.limitType,
        }
        if err := r.db.WithContext(ctx).Create(ev).Error; err != nil {
            logger.Warn("rate limit event write failed", zap.String("user", job.userID), zap.Error(err))
        }
    }
}

// EnqueueImpression 实现 recommend.ImpressionSink
func (r *Recorder) EnqueueImpression(userID, postID, strategyName string) {
    select {
    case r.ch <- recordJob{kind: kindImpression, userID: userID, postID: postID, strategy: strategyName, enqAt: time.Now()}:
    default:
        logger.Warn("recorder queue full, drop impression", zap.String("user", userID), zap.String("post", postID))
    }
}

// EnqueueRateLimitEvent 实现 ratelimit.EventSink
func (r *Recorder) EnqueueRateLimitEvent(userID, commentID, limitType string) {
    select {
    case r.ch <- recordJob{kind: kindRateLimitEvent, userID: userID, commentID: commentID, limitType: limitType, enqAt: time.Now()}:
    default:
        logger.Warn("recorder queue full, drop rate limit event", zap.String("user", userID))
    }
}

// QueueLen 返回当前队列长度（采样值）。
func (r *Recorder) QueueLen() int { return len(r.ch) }
