package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/forum-core/internal/api/middleware"
    "github.com/d60-Lab/forum-core/internal/recommend"
    "github.com/d60-Lab/forum-core/pkg/response"
)

type recommendRequest struct {
    Strategy       string `form:"strategy" binding:"required,strategy"`
    PostID         string `form:"post_id"`
    Count          int    `form:"count" binding:"omitempty,min=1,max=50"`
    ForceLoggedOut bool   `form:"force_logged_out"`
}

// Recommend 获取推荐流：主策略不够时顺延兜底，按 id 去重
// @Summary 推荐帖子
// @Tags 推荐
// @Produce json
// @Param strategy query string true "策略名" Enums(moreFromTag, moreFromAuthor, bestOf, collabFilter)
// @Param post_id query string false "种子帖ID"
// @Param count query int false "条数" default(10)
// @Param force_logged_out query bool false "以未登录视角预览"
// @Success 200 {object} response.Response
// @Router /api/v1/recommendations [get]
func (h *Handler) Recommend(c *gin.Context) {
    var req recommendRequest
    if err := c.ShouldBindQuery(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    if req.Count == 0 {
        req.Count = 10
    }
    posts, err := h.rec.Recommend(c.Request.Context(), middleware.CurrentUser(c), req.Count, recommend.Spec{
        Name:           recommend.StrategyName(req.Strategy),
        PostID:         req.PostID,
        ForceLoggedOut: req.ForceLoggedOut,
    })
    if err != nil {
        writeError(c, err)
        return
    }
    response.Success(c, posts)
}
