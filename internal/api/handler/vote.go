package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/forum-core/internal/api/middleware"
    "github.com/d60-Lab/forum-core/pkg/response"
)

// Vote 赞同某帖（幂等，重复投票不报错）
// @Summary 投票
// @Tags 投票
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{post_id}/votes [post]
func (h *Handler) Vote(c *gin.Context) {
    user := middleware.CurrentUser(c)
    if user == nil {
        response.Unauthorized(c, "login required")
        return
    }
    if err := h.votes.Vote(c.Request.Context(), user.ID, c.Param("post_id")); err != nil {
        writeError(c, err)
        return
    }
    response.Success(c, nil)
}

// Unvote 取消赞同
// @Summary 取消投票
// @Tags 投票
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{post_id}/votes [delete]
func (h *Handler) Unvote(c *gin.Context) {
    user := middleware.CurrentUser(c)
    if user == nil {
        response.Unauthorized(c, "login required")
        return
    }
    if err := h.votes.Unvote(c.Request.Context(), user.ID, c.Param("post_id")); err != nil {
        writeError(c, err)
        return
    }
    response.Success(c, nil)
}
