package repository

import (
    "context"
    "errors"
    "time"

    "gorm.io/gorm"

    "github.com/d60-Lab/forum-core/internal/model"
)

// ScoreSample karma 通胀重算用的采样点
type ScoreSample struct {
    PostedAt  time.Time
    BaseScore int
}

// PostRepository 帖子读模型：推荐各策略的候选查询都在这里
type PostRepository interface {
    GetByID(ctx context.Context, id string) (*model.Post, error)
    // RecentByAuthor 作者其他已发布帖子，按发布时间倒序
    RecentByAuthor(ctx context.Context, authorID, excludeID string, limit int) ([]*model.Post, error)
    // TopByScore 全站高分已发布帖子；userID 非空时排除对该用户已反复曝光的帖子
    TopByScore(ctx context.Context, excludeID, userID string, maxRecommendationCount, limit int) ([]*model.Post, error)
    // RecentTopRated 近期高分帖（标签策略在内存里做重叠度排序）
    RecentTopRated(ctx context.Context, excludeID string, limit int) ([]*model.Post, error)
    // CoVoted 与种子帖共同被投票的帖子，按共同投票人数倒序
    CoVoted(ctx context.Context, seedPostID string, limit int) ([]*model.Post, error)
    // ScoreSamples 已发布帖子的 (postedAt, baseScore) 采样，通胀序列重算用
    ScoreSamples(ctx context.Context) ([]ScoreSample, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
    var p model.Post
    err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, nil
        }
        return nil, err
    }
    return &p, nil
}

func (r *postRepository) published(ctx context.Context, excludeID string) *gorm.DB {
    q := r.db.WithContext(ctx).Model(&model.Post{}).Where("draft = ?", false)
    if excludeID != "" {
        q = q.Where("id <> ?", excludeID)
    }
    return q
}

func (r *postRepository) RecentByAuthor(ctx context.Context, authorID, excludeID string, limit int) ([]*model.Post, error) {
    var res []*model.Post
    err := r.published(ctx, excludeID).
        Where("author_id = ?", authorID).
        Order("posted_at DESC").
        Limit(limit).
        Find(&res).Error
    return res, err
}

func (r *postRepository) TopByScore(ctx context.Context, excludeID, userID string, maxRecommendationCount, limit int) ([]*model.Post, error) {
    q := r.published(ctx, excludeID)
    if userID != "" {
        q = q.Where("id NOT IN (?)", r.db.
            Table("post_recommendations").
            Select("post_id").
            Where("user_id = ? AND recommendation_count >= ?", userID, maxRecommendationCount))
    }
    var res []*model.Post
    err := q.Order("base_score DESC").Limit(limit).Find(&res).Error
    return res, err
}

func (r *postRepository) RecentTopRated(ctx context.Context, excludeID string, limit int) ([]*model.Post, error) {
    var res []*model.Post
    err := r.published(ctx, excludeID).
        Order("posted_at DESC").
        Limit(limit).
        Find(&res).Error
    return res, err
}

func (r *postRepository) CoVoted(ctx context.Context, seedPostID string, limit int) ([]*model.Post, error) {
    // 投过种子帖的人还投了什么：votes 自连接后按共同票数排序
    var res []*model.Post
    err := r.db.WithContext(ctx).
        Table("posts").
        Select("posts.*").
        Joins("JOIN votes v2 ON v2.post_id = posts.id").
        Joins("JOIN votes v1 ON v1.user_id = v2.user_id AND v1.post_id = ?", seedPostID).
        Where("posts.id <> ? AND posts.draft = ?", seedPostID, false).
        Group("posts.id").
        Order("COUNT(DISTINCT v2.user_id) DESC").
        Limit(limit).
        Find(&res).Error
    return res, err
}

func (r *postRepository) ScoreSamples(ctx context.Context) ([]ScoreSample, error) {
    var rows []ScoreSample
    err := r.db.WithContext(ctx).
        Model(&model.Post{}).
        Select("posted_at, base_score").
        Where("draft = ? AND posted_at IS NOT NULL", false).
        Order("posted_at ASC").
        Scan(&rows).Error
    return rows, err
}
