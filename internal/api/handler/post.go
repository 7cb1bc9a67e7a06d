package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/forum-core/internal/api/middleware"
    "github.com/d60-Lab/forum-core/internal/service"
    "github.com/d60-Lab/forum-core/pkg/response"
)

type createPostRequest struct {
    Title            string   `json:"title" binding:"required"`
    Payload          string   `json:"payload" binding:"required"`
    Tags             []string `json:"tags"`
    Draft            bool     `json:"draft"`
    IgnoreRateLimits bool     `json:"ignore_rate_limits"`
}

// CreatePost 建帖（直接发布受限流约束，草稿不受）
// @Summary 创建帖子
// @Tags 内容
// @Accept json
// @Produce json
// @Param request body createPostRequest true "帖子内容"
// @Success 200 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
    user := middleware.CurrentUser(c)
    if user == nil {
        response.Unauthorized(c, "login required")
        return
    }
    var req createPostRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    post, err := h.content.CreatePost(c.Request.Context(), user, service.PostInput{
        Title:            req.Title,
        Payload:          req.Payload,
        Tags:             req.Tags,
        Draft:            req.Draft,
        IgnoreRateLimits: req.IgnoreRateLimits,
    })
    if err != nil {
        writeError(c, err)
        return
    }
    response.Success(c, post)
}

// PublishDraft 草稿转发布（与建帖同受发帖限流）
// @Summary 发布草稿
// @Tags 内容
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/posts/{post_id}/publish [post]
func (h *Handler) PublishDraft(c *gin.Context) {
    user := middleware.CurrentUser(c)
    if user == nil {
        response.Unauthorized(c, "login required")
        return
    }
    post, err := h.content.PublishDraft(c.Request.Context(), user, c.Param("post_id"))
    if err != nil {
        writeError(c, err)
        return
    }
    response.Success(c, post)
}
