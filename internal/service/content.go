package service

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/ratelimit"
)

var (
    ErrPostNotFound = errors.New("post not found")
    ErrNotDraft     = errors.New("post is not a draft")
    ErrNotAuthor    = errors.New("not the author of this post")
)

// PostInput 新帖参数
type PostInput struct {
    Title            string
    Payload          string
    Tags             []string
    Draft            bool
    IgnoreRateLimits bool
}

// ContentService 创建帖子/评论的写路径，限流闸门在写之前
type ContentService struct {
    db   *gorm.DB
    gate *ratelimit.Gate
}

func NewContentService(db *gorm.DB, gate *ratelimit.Gate) *ContentService {
    return &ContentService{db: db, gate: gate}
}

// CreatePost 建帖。草稿不走限流；直接发布则先过闸门
func (s *ContentService) CreatePost(ctx context.Context, user *model.User, in PostInput) (*model.Post, error) {
    if !in.Draft {
        if err := s.gate.CheckCanPost(ctx, user); err != nil {
            return nil, err
        }
    }
    now := time.Now()
    post := &model.Post{
        ID:               uuid.New().String(),
        AuthorID:         user.ID,
        Title:            in.Title,
        Payload:          in.Payload,
        Tags:             in.Tags,
        Draft:            in.Draft,
        IgnoreRateLimits: in.IgnoreRateLimits,
        CreatedAt:        now,
        UpdatedAt:        now,
    }
    if !in.Draft {
        post.PostedAt = &now
    }
    if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
        return nil, err
    }
    return post, nil
}

// PublishDraft 草稿转发布，与建帖同样受发帖限流；
// 已发布帖子的普通编辑不走这里，天然豁免
func (s *ContentService) PublishDraft(ctx context.Context, user *model.User, postID string) (*model.Post, error) {
    var post model.Post
    err := s.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrPostNotFound
        }
        return nil, err
    }
    if post.AuthorID != user.ID {
        return nil, ErrNotAuthor
    }
    if !post.Draft {
        return nil, ErrNotDraft
    }
    if err := s.gate.CheckCanPost(ctx, user); err != nil {
        return nil, err
    }
    now := time.Now()
    if err := s.db.WithContext(ctx).Model(&post).
        Updates(map[string]any{"draft": false, "posted_at": now, "updated_at": now}).Error; err != nil {
        return nil, err
    }
    post.Draft = false
    post.PostedAt = &now
    return &post, nil
}

// CreateComment 创建评论；成功后异步评估是否撞限流档并发监控事件
func (s *ContentService) CreateComment(ctx context.Context, user *model.User, postID, payload string) (*model.Comment, error) {
    if err := s.gate.CheckCanComment(ctx, user, postID); err != nil {
        return nil, err
    }
    comment := &model.Comment{
        ID:        uuid.New().String(),
        AuthorID:  user.ID,
        PostID:    postID,
        Payload:   payload,
        CreatedAt: time.Now(),
    }
    if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
        return nil, err
    }
    s.gate.CommentCreated(user, comment.ID)
    return comment, nil
}
