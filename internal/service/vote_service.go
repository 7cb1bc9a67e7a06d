package service

import (
    "context"
    "errors"

    "github.com/d60-Lab/forum-core/internal/repository"
)

var ErrVoteOwnPost = errors.New("cannot vote on your own post")

// VoteService 赞同票服务（协同过滤策略的数据来源）
type VoteService struct {
    votes repository.VoteRepository
    posts repository.PostRepository
}

func NewVoteService(votes repository.VoteRepository, posts repository.PostRepository) *VoteService {
    return &VoteService{votes: votes, posts: posts}
}

func (s *VoteService) Vote(ctx context.Context, userID, postID string) error {
    post, err := s.posts.GetByID(ctx, postID)
    if err != nil {
        return err
    }
    if post == nil {
        return ErrPostNotFound
    }
    if post.AuthorID == userID {
        return ErrVoteOwnPost
    }
    return s.votes.Create(ctx, userID, postID, 1)
}

func (s *VoteService) Unvote(ctx context.Context, userID, postID string) error {
    return s.votes.Delete(ctx, userID, postID)
}
