package handler

import (
    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/forum-core/internal/api/middleware"
    "github.com/d60-Lab/forum-core/pkg/response"
)

type createCommentRequest struct {
    Payload string `json:"payload" binding:"required"`
}

// CreateComment 发表评论（未登录一律拒绝；帖子可带「忽略限流」标记）
// @Summary 创建评论
// @Tags 内容
// @Accept json
// @Produce json
// @Param post_id path string true "帖子ID"
// @Param request body createCommentRequest true "评论内容"
// @Success 200 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/v1/posts/{post_id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
    user := middleware.CurrentUser(c)
    var req createCommentRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    comment, err := h.content.CreateComment(c.Request.Context(), user, c.Param("post_id"), req.Payload)
    if err != nil {
        writeError(c, err)
        return
    }
    response.Success(c, comment)
}
