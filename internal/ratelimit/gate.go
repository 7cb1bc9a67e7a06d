package ratelimit

import (
    "context"
    "errors"
    "fmt"
    "time"

    "go.uber.org/zap"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/repository"
    "github.com/d60-Lab/forum-core/pkg/logger"
)

var ErrLoggedOut = errors.New("cannot comment while logged out")

// EventSink 限流监控事件的异步出口（尽力而为，失败不影响写入）
type EventSink interface {
    EnqueueRateLimitEvent(userID, commentID, limitType string)
}

// Gate 写入时点的限流判定：取活动快照，交给 Evaluator 求值。
// 取数失败按保守策略处理（无法核实资格 ⇒ 拒绝写入）。
type Gate struct {
    eval       *Evaluator
    activity   repository.ActivityRepository
    modActions repository.ModeratorActionRepository
    posts      repository.PostRepository
    sink       EventSink
}

func NewGate(
    eval *Evaluator,
    activity repository.ActivityRepository,
    modActions repository.ModeratorActionRepository,
    posts repository.PostRepository,
    sink EventSink,
) *Gate {
    return &Gate{eval: eval, activity: activity, modActions: modActions, posts: posts, sink: sink}
}

// CheckCanPost 发帖与草稿转发布共用；放行返回 nil，拒绝返回 *Error
func (g *Gate) CheckCanPost(ctx context.Context, user *model.User) error {
    if user == nil {
        return errors.New("cannot post while logged out")
    }
    if g.eval.Exempt(user) {
        return nil
    }
    now := time.Now()

    var a PostActivity
    action, err := g.modActions.ActiveRateLimit(ctx, user.ID, now)
    if err != nil {
        return fmt.Errorf("rate limit lookup: %w", err)
    }
    if action != nil {
        a.ModAction = action
        // 版主窗口内的发帖数不过滤草稿，保持原行为
        n, err := g.activity.CountInWindow(ctx, user.ID, repository.ActivityPosts, action.Timeframe(), repository.ActivityFilter{})
        if err != nil {
            return fmt.Errorf("rate limit lookup: %w", err)
        }
        a.PostsInModWindow = n
    }

    countFilter := repository.ActivityFilter{ExcludeDrafts: true}
    a.PostsInPast24H, err = g.activity.CountInWindow(ctx, user.ID, repository.ActivityPosts, 24*time.Hour, countFilter)
    if err != nil {
        return fmt.Errorf("rate limit lookup: %w", err)
    }
    a.MostRecentPostAt, err = g.activity.NthMostRecentAt(ctx, user.ID, repository.ActivityPosts, 1, g.eval.cfg.PostInterval, countFilter)
    if err != nil {
        return fmt.Errorf("rate limit lookup: %w", err)
    }

    if rlErr := g.eval.EvaluatePost(user, a, now); rlErr != nil {
        return rlErr
    }
    return nil
}

// CheckCanComment 每条评论创建时调用；未登录一律拒绝，
// 目标帖带 IgnoreRateLimits 则跳过全部检查
func (g *Gate) CheckCanComment(ctx context.Context, user *model.User, postID string) error {
    if user == nil {
        return ErrLoggedOut
    }
    if postID != "" {
        post, err := g.posts.GetByID(ctx, postID)
        if err != nil {
            return fmt.Errorf("rate limit lookup: %w", err)
        }
        if post != nil && post.IgnoreRateLimits {
            return nil
        }
    }
    now := time.Now()

    decision, err := g.NextCommentTime(ctx, user)
    if err != nil {
        return err
    }
    if decision.Blocks(now) {
        return &Error{
            Reason:         decision.Reason,
            NextEligibleAt: decision.NextEligibleAt,
            Message:        fmt.Sprintf("you cannot comment until %s", decision.NextEligibleAt.Format(time.RFC3339)),
        }
    }

    if postID != "" {
        decision, err = g.postCommentLimit(ctx, user, postID, now)
        if err != nil {
            return err
        }
        if decision.Blocks(now) {
            return &Error{
                Reason:         decision.Reason,
                NextEligibleAt: decision.NextEligibleAt,
                Message:        fmt.Sprintf("you cannot comment on this post until %s", decision.NextEligibleAt.Format(time.RFC3339)),
            }
        }
    }
    return nil
}

// NextCommentTime 汇总评论路径快照后求值；nil 表示现在就能评论
func (g *Gate) NextCommentTime(ctx context.Context, user *model.User) (*Decision, error) {
    if g.eval.Exempt(user) {
        return nil, nil
    }
    now := time.Now()

    var a CommentActivity
    action, err := g.modActions.ActiveRateLimit(ctx, user.ID, now)
    if err != nil {
        return nil, fmt.Errorf("rate limit lookup: %w", err)
    }
    if action != nil {
        a.ModAction = action
        a.MostRecentInModWindow, err = g.activity.NthMostRecentAt(ctx, user.ID, repository.ActivityComments, 1, action.Timeframe(), repository.ActivityFilter{})
        if err != nil {
            return nil, fmt.Errorf("rate limit lookup: %w", err)
        }
    }
    if t := g.eval.cfg.CommentKarmaThreshold; t != nil && user.Karma < *t {
        a.FourthMostRecentAt, err = g.activity.NthMostRecentAt(ctx, user.ID, repository.ActivityComments, lowKarmaCommentCount, lowKarmaCommentWindow, repository.ActivityFilter{})
        if err != nil {
            return nil, fmt.Errorf("rate limit lookup: %w", err)
        }
    }
    a.MostRecentAt, err = g.activity.NthMostRecentAt(ctx, user.ID, repository.ActivityComments, 1, g.eval.cfg.CommentInterval, repository.ActivityFilter{})
    if err != nil {
        return nil, fmt.Errorf("rate limit lookup: %w", err)
    }

    return g.eval.NextCommentTime(user, a, now), nil
}

func (g *Gate) postCommentLimit(ctx context.Context, user *model.User, postID string, now time.Time) (*Decision, error) {
    active, err := g.modActions.HasActiveOfType(ctx, user.ID, model.ActionThreeCommentsPerPostPerWeek, now)
    if err != nil {
        return nil, fmt.Errorf("rate limit lookup: %w", err)
    }
    a := PostCommentActivity{LimitActive: active}
    if active {
        a.ThirdMostRecentAt, err = g.activity.NthMostRecentAt(ctx, user.ID, repository.ActivityComments, perPostCommentCount, perPostCommentWindow, repository.ActivityFilter{PostID: postID})
        if err != nil {
            return nil, fmt.Errorf("rate limit lookup: %w", err)
        }
    }
    return g.eval.PostCommentLimit(a), nil
}

// CommentCreated 评论成功落库后调用：异步评估新状态是否撞到限流档，
// 撞到（通用 15s 档除外）就发一条监控事件。失败只记日志，不影响写入。
func (g *Gate) CommentCreated(user *model.User, commentID string) {
    if user == nil || g.sink == nil {
        return
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        decision, err := g.NextCommentTime(ctx, user)
        if err != nil {
            logger.Warn("rate limit event evaluation failed", zap.String("user", user.ID), zap.Error(err))
            return
        }
        if decision != nil && decision.Reason != ReasonUniversal {
            g.sink.EnqueueRateLimitEvent(user.ID, commentID, string(decision.Reason))
        }
    }()
}
