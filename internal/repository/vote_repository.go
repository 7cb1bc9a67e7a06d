package repository

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/forum-core/internal/model"
)

type VoteRepository interface {
    Create(ctx context.Context, userID, postID string, power int) error
    Delete(ctx context.Context, userID, postID string) error
    ListPostIDsVotedBy(ctx context.Context, userID string, limit int) ([]string, error)
}

type voteRepository struct{ db *gorm.DB }

func NewVoteRepository(db *gorm.DB) VoteRepository { return &voteRepository{db: db} }

func (r *voteRepository) Create(ctx context.Context, userID, postID string, power int) error {
    v := &model.Vote{ID: uuid.New().String(), UserID: userID, PostID: postID, Power: power}
    // 幂等：重复投票不报错
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(v).Error
}

func (r *voteRepository) Delete(ctx context.Context, userID, postID string) error {
    return r.db.WithContext(ctx).
        Where("user_id = ? AND post_id = ?", userID, postID).
        Delete(&model.Vote{}).Error
}

func (r *voteRepository) ListPostIDsVotedBy(ctx context.Context, userID string, limit int) ([]string, error) {
    var ids []string
    err := r.db.WithContext(ctx).
        Model(&model.Vote{}).
        Select("post_id").
        Where("user_id = ?", userID).
        Order("created_at DESC").
        Limit(limit).
        Scan(&ids).Error
    return ids, err
}
