package handler

import (
    "errors"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/forum-core/internal/ratelimit"
    "github.com/d60-Lab/forum-core/internal/recommend"
    "github.com/d60-Lab/forum-core/internal/service"
    "github.com/d60-Lab/forum-core/pkg/response"
)

// Handler 聚合全部 HTTP 入口
type Handler struct {
    content *service.ContentService
    votes   *service.VoteService
    rec     *recommend.Service
}

func New(content *service.ContentService, votes *service.VoteService, rec *recommend.Service) *Handler {
    return &Handler{content: content, votes: votes, rec: rec}
}

// writeError 把领域错误翻译成 HTTP：限流拒绝走 429，其余按错误类型分流
func writeError(c *gin.Context, err error) {
    var rlErr *ratelimit.Error
    switch {
    case errors.As(err, &rlErr):
        data := gin.H{}
        if !rlErr.NextEligibleAt.IsZero() {
            data["next_eligible_at"] = rlErr.NextEligibleAt
        }
        response.TooManyRequests(c, string(rlErr.Reason), rlErr.Message, data)
    case errors.Is(err, ratelimit.ErrLoggedOut):
        response.Unauthorized(c, err.Error())
    case errors.Is(err, recommend.ErrUnknownStrategy),
        errors.Is(err, service.ErrPostNotFound),
        errors.Is(err, service.ErrNotDraft),
        errors.Is(err, service.ErrNotAuthor),
        errors.Is(err, service.ErrVoteOwnPost):
        response.BadRequest(c, err.Error())
    default:
        response.InternalError(c, err)
    }
}
