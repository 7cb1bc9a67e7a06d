package ratelimit

import (
    "fmt"
    "time"

    "github.com/d60-Lab/forum-core/config"
    "github.com/d60-Lab/forum-core/internal/model"
)

// Reason 限流原因码
type Reason string

const (
    ReasonModerator     Reason = "moderator"
    ReasonLowKarma      Reason = "lowKarma"
    ReasonUniversal     Reason = "universal"
    ReasonPostFrequency Reason = "postFrequency"
    ReasonDailyCap      Reason = "dailyCap"
)

// Decision 下一次可操作时间；不落库，按请求即时计算
type Decision struct {
    NextEligibleAt time.Time
    Reason         Reason
}

// Blocks nextEligible 严格大于 now 才算仍被限制（边界相等即放行）
func (d *Decision) Blocks(now time.Time) bool {
    return d != nil && d.NextEligibleAt.After(now)
}

// Error 限流拒绝：带原因码和给用户看的等待提示
type Error struct {
    Reason         Reason
    NextEligibleAt time.Time // 二元拒绝（如版主发帖限制）时为零值
    Message        string
}

func (e *Error) Error() string { return e.Message }

// 低 karma 档：30 分钟内第 4 条评论触发
const (
    lowKarmaCommentCount  = 4
    lowKarmaCommentWindow = 30 * time.Minute
)

// per-post 档：单帖 7 天内第 3 条评论触发
const (
    perPostCommentCount = 3
    perPostCommentWindow = 7 * 24 * time.Hour
)

// Config 限流阈值（构造时注入，不读全局状态）
type Config struct {
    PostInterval    time.Duration
    MaxPostsPer24H  int
    CommentInterval time.Duration
    // CommentKarmaThreshold nil 表示低 karma 档关闭
    CommentKarmaThreshold *int
}

// ConfigFrom 从进程配置换算
func ConfigFrom(rc config.RateLimitConfig) Config {
    return Config{
        PostInterval:          time.Duration(rc.PostIntervalSeconds) * time.Second,
        MaxPostsPer24H:        rc.MaxPostsPer24H,
        CommentInterval:       time.Duration(rc.CommentIntervalSeconds) * time.Second,
        CommentKarmaThreshold: rc.CommentKarmaThreshold,
    }
}

// PostActivity 发帖路径的活动快照（Gate 取数，Evaluator 不做 I/O）
type PostActivity struct {
    // 生效中的版主限流档位；nil 表示没有
    ModAction *model.ModeratorAction
    // 版主窗口内的发帖数（含草稿，与原行为一致）
    PostsInModWindow int64
    // 近 24h 非草稿发帖数
    PostsInPast24H int64
    // 发帖间隔窗口内最近一帖时间（非草稿）；nil 表示窗口内没有
    MostRecentPostAt *time.Time
}

// CommentActivity 评论路径的活动快照
type CommentActivity struct {
    ModAction *model.ModeratorAction
    // 版主窗口内最近一条评论时间
    MostRecentInModWindow *time.Time
    // 近 30 分钟第 4 新评论时间（低 karma 档取数）
    FourthMostRecentAt *time.Time
    // 评论间隔窗口内最近一条评论时间
    MostRecentAt *time.Time
}

// PostCommentActivity 单帖评论上限的快照
type PostCommentActivity struct {
    LimitActive bool
    // 该帖 7 天内第 3 新评论时间
    ThirdMostRecentAt *time.Time
}

// Evaluator 纯策略计算，规则按严格优先级求值
type Evaluator struct {
    cfg Config
}

func NewEvaluator(cfg Config) *Evaluator { return &Evaluator{cfg: cfg} }

// Exempt 管理员、信任组、显式豁免用户一律放行
func (e *Evaluator) Exempt(user *model.User) bool {
    return user.IsAdmin ||
        user.IsMemberOf(model.GroupSunshineRegiment) ||
        user.IsMemberOf(model.GroupCanBypassPostRateLimit)
}

// EvaluatePost 发帖路径；返回 nil 表示放行。
// 注意：版主发帖限制是二元的——窗口内只要有帖就直接拒绝，不给倒计时
// （窗口本身会随时间滑动重新评估）；与评论路径的「算出下次可评论时间」
// 刻意不对称，保留原行为。
func (e *Evaluator) EvaluatePost(user *model.User, a PostActivity, now time.Time) *Error {
    if e.Exempt(user) {
        return nil
    }
    if a.ModAction != nil && a.PostsInModWindow > 0 {
        return &Error{
            Reason:  ReasonModerator,
            Message: model.ModeratorActionDescriptions[a.ModAction.Type],
        }
    }
    if int(a.PostsInPast24H) >= e.cfg.MaxPostsPer24H {
        return &Error{
            Reason:  ReasonDailyCap,
            Message: fmt.Sprintf("you cannot submit more than %d posts per day", e.cfg.MaxPostsPer24H),
        }
    }
    if a.MostRecentPostAt != nil {
        next := a.MostRecentPostAt.Add(e.cfg.PostInterval)
        if next.After(now) {
            remaining := int(next.Sub(now).Seconds())
            return &Error{
                Reason:         ReasonPostFrequency,
                NextEligibleAt: next,
                Message:        fmt.Sprintf("please wait %d seconds before posting again", remaining),
            }
        }
    }
    return nil
}

// NextCommentTime 若被限流，返回下一次可评论时间；可以立刻评论则返回 nil。
// 与原行为一致：版主档和通用档直接返回窗口推算值（调用方比较 now），
// 低 karma 档只在推算值仍在未来时返回。
func (e *Evaluator) NextCommentTime(user *model.User, a CommentActivity, now time.Time) *Decision {
    if e.Exempt(user) {
        return nil
    }
    if a.ModAction != nil && a.MostRecentInModWindow != nil {
        return &Decision{
            NextEligibleAt: a.MostRecentInModWindow.Add(a.ModAction.Timeframe()),
            Reason:         ReasonModerator,
        }
    }
    if t := e.cfg.CommentKarmaThreshold; t != nil && user.Karma < *t && a.FourthMostRecentAt != nil {
        next := a.FourthMostRecentAt.Add(lowKarmaCommentWindow)
        if next.After(now) {
            return &Decision{NextEligibleAt: next, Reason: ReasonLowKarma}
        }
    }
    if a.MostRecentAt != nil {
        return &Decision{
            NextEligibleAt: a.MostRecentAt.Add(e.cfg.CommentInterval),
            Reason:         ReasonUniversal,
        }
    }
    return nil
}

// PostCommentLimit 单帖每周 3 条评论档
func (e *Evaluator) PostCommentLimit(a PostCommentActivity) *Decision {
    if !a.LimitActive || a.ThirdMostRecentAt == nil {
        return nil
    }
    return &Decision{
        NextEligibleAt: a.ThirdMostRecentAt.Add(perPostCommentWindow),
        Reason:         ReasonModerator,
    }
}
