package service

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/gorm"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/ratelimit"
    "github.com/d60-Lab/forum-core/internal/repository"
)

func newTestContent(t *testing.T, db *gorm.DB) *ContentService {
    t.Helper()
    eval := ratelimit.NewEvaluator(ratelimit.Config{
        PostInterval:    30 * time.Second,
        MaxPostsPer24H:  5,
        CommentInterval: 15 * time.Second,
    })
    gate := ratelimit.NewGate(
        eval,
        repository.NewActivityRepository(db),
        repository.NewModeratorActionRepository(db),
        repository.NewPostRepository(db),
        nil,
    )
    return NewContentService(db, gate)
}

func TestCreatePostPublishesImmediately(t *testing.T) {
    db := setupServiceDB(t)
    svc := newTestContent(t, db)
    user := &model.User{ID: "u1"}

    post, err := svc.CreatePost(context.Background(), user, PostInput{Title: "hello", Payload: "body"})
    require.NoError(t, err)
    assert.False(t, post.Draft)
    require.NotNil(t, post.PostedAt)
}

func TestCreateDraftSkipsRateLimit(t *testing.T) {
    db := setupServiceDB(t)
    svc := newTestContent(t, db)
    user := &model.User{ID: "u1"}
    ctx := context.Background()

    // 第一帖占住 30s 发帖间隔
    _, err := svc.CreatePost(ctx, user, PostInput{Title: "first"})
    require.NoError(t, err)

    // 紧接着发第二帖会被间隔挡下
    _, err = svc.CreatePost(ctx, user, PostInput{Title: "second"})
    var rlErr *ratelimit.Error
    require.ErrorAs(t, err, &rlErr)
    assert.Equal(t, ratelimit.ReasonPostFrequency, rlErr.Reason)

    // 草稿不受影响
    draft, err := svc.CreatePost(ctx, user, PostInput{Title: "draft", Draft: true})
    require.NoError(t, err)
    assert.True(t, draft.Draft)
    assert.Nil(t, draft.PostedAt)
}

func TestPublishDraftGoesThroughGate(t *testing.T) {
    db := setupServiceDB(t)
    svc := newTestContent(t, db)
    user := &model.User{ID: "u1"}
    ctx := context.Background()

    draft, err := svc.CreatePost(ctx, user, PostInput{Title: "draft", Draft: true})
    require.NoError(t, err)

    published, err := svc.PublishDraft(ctx, user, draft.ID)
    require.NoError(t, err)
    assert.False(t, published.Draft)
    require.NotNil(t, published.PostedAt)

    // 再次发布同一帖
    _, err = svc.PublishDraft(ctx, user, draft.ID)
    assert.ErrorIs(t, err, ErrNotDraft)

    // 别人的草稿
    other := &model.User{ID: "u2"}
    draft2, err := svc.CreatePost(ctx, user, PostInput{Title: "draft2", Draft: true})
    require.NoError(t, err)
    _, err = svc.PublishDraft(ctx, other, draft2.ID)
    assert.ErrorIs(t, err, ErrNotAuthor)

    _, err = svc.PublishDraft(ctx, user, "missing")
    assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPublishDraftBlockedByPostInterval(t *testing.T) {
    db := setupServiceDB(t)
    svc := newTestContent(t, db)
    user := &model.User{ID: "u1"}
    ctx := context.Background()

    draft, err := svc.CreatePost(ctx, user, PostInput{Title: "draft", Draft: true})
    require.NoError(t, err)

    _, err = svc.CreatePost(ctx, user, PostInput{Title: "published"})
    require.NoError(t, err)

    _, err = svc.PublishDraft(ctx, user, draft.ID)
    var rlErr *ratelimit.Error
    require.ErrorAs(t, err, &rlErr)

    // 帖子仍是草稿
    got, err := repository.NewPostRepository(db).GetByID(ctx, draft.ID)
    require.NoError(t, err)
    assert.True(t, got.Draft)
}

func TestCreateCommentRequiresLogin(t *testing.T) {
    db := setupServiceDB(t)
    svc := newTestContent(t, db)

    _, err := svc.CreateComment(context.Background(), nil, "p1", "hi")
    assert.True(t, errors.Is(err, ratelimit.ErrLoggedOut))
}

func TestCreateCommentPersists(t *testing.T) {
    db := setupServiceDB(t)
    svc := newTestContent(t, db)
    user := &model.User{ID: "u1", Karma: 100}

    c, err := svc.CreateComment(context.Background(), user, "p1", "hi")
    require.NoError(t, err)

    var cnt int64
    db.Model(&model.Comment{}).Where("id = ?", c.ID).Count(&cnt)
    assert.EqualValues(t, 1, cnt)
}
