package recommend

import (
    "context"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/repository"
)

// MoreFromAuthorStrategy 种子帖作者的其他近期帖子
type MoreFromAuthorStrategy struct {
    posts repository.PostRepository
}

func NewMoreFromAuthorStrategy(posts repository.PostRepository) *MoreFromAuthorStrategy {
    return &MoreFromAuthorStrategy{posts: posts}
}

func (s *MoreFromAuthorStrategy) Recommend(ctx context.Context, user *model.User, count int, spec Spec) ([]*model.Post, error) {
    if spec.PostID == "" {
        return nil, nil
    }
    seed, err := s.posts.GetByID(ctx, spec.PostID)
    if err != nil {
        return nil, err
    }
    if seed == nil {
        return nil, nil
    }
    return s.posts.RecentByAuthor(ctx, seed.AuthorID, seed.ID, count)
}
