package model

import "time"

// 版主处置类型；RateLimit* 为限流档位
const (
    ActionRateLimitOnePerDay             = "rateLimitOnePerDay"
    ActionRateLimitOnePerThreeDays       = "rateLimitOnePerThreeDays"
    ActionRateLimitOnePerWeek            = "rateLimitOnePerWeek"
    ActionThreeCommentsPerPostPerWeek    = "rateLimitThreeCommentsPerPostPerWeek"
)

// RateLimitTimeframeHours 各限流档位的回看窗口（小时）
var RateLimitTimeframeHours = map[string]int{
    ActionRateLimitOnePerDay:          24,
    ActionRateLimitOnePerThreeDays:    24 * 3,
    ActionRateLimitOnePerWeek:         24 * 7,
    ActionThreeCommentsPerPostPerWeek: 24 * 7,
}

// ModeratorActionDescriptions 拒绝时回给用户的说明
var ModeratorActionDescriptions = map[string]string{
    ActionRateLimitOnePerDay:          "rate limited: one per day",
    ActionRateLimitOnePerThreeDays:    "rate limited: one per three days",
    ActionRateLimitOnePerWeek:         "rate limited: one per week",
    ActionThreeCommentsPerPostPerWeek: "rate limited: three comments per post per week",
}

// RestrictivePostCommentTypes 按「最近一次活动 + 窗口」限流的档位
// （不含 per-post 档，后者单独评估）
var RestrictivePostCommentTypes = []string{
    ActionRateLimitOnePerDay,
    ActionRateLimitOnePerThreeDays,
    ActionRateLimitOnePerWeek,
}

// ModeratorAction 版主对用户的处置记录（本服务只读）
type ModeratorAction struct {
    ID        string    `gorm:"primaryKey;type:varchar(36)"`
    UserID    string    `gorm:"type:varchar(36);index:idx_modaction_user;not null"`
    Type      string    `gorm:"type:varchar(64);index:idx_modaction_type;not null"`
    CreatedAt time.Time `gorm:"index"`
}

func (ModeratorAction) TableName() string { return "moderator_actions" }

// Timeframe 档位对应的窗口长度；未知档位返回 0
func (a *ModeratorAction) Timeframe() time.Duration {
    return time.Duration(RateLimitTimeframeHours[a.Type]) * time.Hour
}

// ActiveAt 处置是否仍然生效：now 落在 createdAt + 窗口 内
func (a *ModeratorAction) ActiveAt(now time.Time) bool {
    tf := a.Timeframe()
    if tf <= 0 {
        return false
    }
    return now.Before(a.CreatedAt.Add(tf))
}
