package recommend

import (
    "context"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/repository"
)

// CollabFilterStrategy 协同过滤：投过种子帖的人还投了什么
type CollabFilterStrategy struct {
    posts repository.PostRepository
}

func NewCollabFilterStrategy(posts repository.PostRepository) *CollabFilterStrategy {
    return &CollabFilterStrategy{posts: posts}
}

func (s *CollabFilterStrategy) Recommend(ctx context.Context, user *model.User, count int, spec Spec) ([]*model.Post, error) {
    if spec.PostID == "" {
        return nil, nil
    }
    return s.posts.CoVoted(ctx, spec.PostID, count)
}
