package ratelimit

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/repository"
)

type captureSink struct{ ch chan string }

func (s *captureSink) EnqueueRateLimitEvent(userID, commentID, limitType string) {
    s.ch <- limitType
}

func setupGateDB(t *testing.T) *gorm.DB {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(
        &model.User{}, &model.Post{}, &model.Comment{}, &model.Vote{},
        &model.ModeratorAction{}, &model.PostRecommendation{}, &model.RateLimitEvent{},
    ))
    return db
}

func newTestGate(db *gorm.DB, cfg Config, sink EventSink) *Gate {
    return NewGate(
        NewEvaluator(cfg),
        repository.NewActivityRepository(db),
        repository.NewModeratorActionRepository(db),
        repository.NewPostRepository(db),
        sink,
    )
}

func seedUser(t *testing.T, db *gorm.DB, karma int) *model.User {
    t.Helper()
    u := &model.User{ID: uuid.New().String(), Username: "u" + uuid.New().String()[:8], Karma: karma}
    require.NoError(t, db.Create(u).Error)
    return u
}

func seedComment(t *testing.T, db *gorm.DB, authorID, postID string, at time.Time) {
    t.Helper()
    c := &model.Comment{ID: uuid.New().String(), AuthorID: authorID, PostID: postID, CreatedAt: at}
    require.NoError(t, db.Create(c).Error)
}

func seedPost(t *testing.T, db *gorm.DB, authorID string, draft bool, at time.Time) *model.Post {
    t.Helper()
    p := &model.Post{ID: uuid.New().String(), AuthorID: authorID, Draft: draft, CreatedAt: at}
    if !draft {
        p.PostedAt = &at
    }
    require.NoError(t, db.Create(p).Error)
    return p
}

func TestCheckCanCommentLoggedOut(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    err := g.CheckCanComment(context.Background(), nil, "p1")
    assert.ErrorIs(t, err, ErrLoggedOut)
}

func TestCheckCanCommentUniversalCooldown(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    user := seedUser(t, db, 100)
    post := seedPost(t, db, seedUser(t, db, 0).ID, false, time.Now().Add(-time.Hour))

    seedComment(t, db, user.ID, post.ID, time.Now().Add(-5*time.Second))

    err := g.CheckCanComment(context.Background(), user, post.ID)
    var rlErr *Error
    require.ErrorAs(t, err, &rlErr)
    assert.Equal(t, ReasonUniversal, rlErr.Reason)
    assert.False(t, rlErr.NextEligibleAt.IsZero())

    // 冷却期过了就放行
    db.Exec("DELETE FROM comments")
    seedComment(t, db, user.ID, post.ID, time.Now().Add(-time.Minute))
    assert.NoError(t, g.CheckCanComment(context.Background(), user, post.ID))
}

func TestCheckCanCommentIgnoreRateLimits(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    user := seedUser(t, db, 100)
    post := seedPost(t, db, user.ID, false, time.Now().Add(-time.Hour))
    require.NoError(t, db.Model(post).Update("ignore_rate_limits", true).Error)

    seedComment(t, db, user.ID, post.ID, time.Now().Add(-1*time.Second))
    assert.NoError(t, g.CheckCanComment(context.Background(), user, post.ID))
}

func TestCheckCanCommentExemptRoles(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    admin := &model.User{ID: uuid.New().String(), Username: "a", IsAdmin: true}
    require.NoError(t, db.Create(admin).Error)
    post := seedPost(t, db, admin.ID, false, time.Now().Add(-time.Hour))
    seedComment(t, db, admin.ID, post.ID, time.Now().Add(-1*time.Second))

    assert.NoError(t, g.CheckCanComment(context.Background(), admin, post.ID))
}

func TestCheckCanCommentPerPostWeeklyCap(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    user := seedUser(t, db, 100)
    author := seedUser(t, db, 0)
    post := seedPost(t, db, author.ID, false, time.Now().Add(-30*24*time.Hour))
    other := seedPost(t, db, author.ID, false, time.Now().Add(-30*24*time.Hour))

    require.NoError(t, db.Create(&model.ModeratorAction{
        ID: uuid.New().String(), UserID: user.ID,
        Type: model.ActionThreeCommentsPerPostPerWeek, CreatedAt: time.Now().Add(-time.Hour),
    }).Error)

    // 3 条都落在 7 天窗口内，但避开 15s 通用冷却
    for i := 1; i <= 3; i++ {
        seedComment(t, db, user.ID, post.ID, time.Now().Add(-time.Duration(i)*time.Hour))
    }

    err := g.CheckCanComment(context.Background(), user, post.ID)
    var rlErr *Error
    require.ErrorAs(t, err, &rlErr)
    assert.Equal(t, ReasonModerator, rlErr.Reason)

    // 同一限制不影响其他帖子
    assert.NoError(t, g.CheckCanComment(context.Background(), user, other.ID))
}

func TestCheckCanPostDailyCap(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    user := seedUser(t, db, 100)
    for i := 0; i < 5; i++ {
        seedPost(t, db, user.ID, false, time.Now().Add(-time.Duration(i+1)*time.Hour))
    }

    err := g.CheckCanPost(context.Background(), user)
    var rlErr *Error
    require.ErrorAs(t, err, &rlErr)
    assert.Equal(t, ReasonDailyCap, rlErr.Reason)
}

func TestCheckCanPostDraftsDoNotCount(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    user := seedUser(t, db, 100)
    for i := 0; i < 5; i++ {
        seedPost(t, db, user.ID, true, time.Now().Add(-time.Duration(i+1)*time.Hour))
    }
    assert.NoError(t, g.CheckCanPost(context.Background(), user))
}

func TestCheckCanPostInterval(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    user := seedUser(t, db, 100)
    seedPost(t, db, user.ID, false, time.Now().Add(-10*time.Second))

    err := g.CheckCanPost(context.Background(), user)
    var rlErr *Error
    require.ErrorAs(t, err, &rlErr)
    assert.Equal(t, ReasonPostFrequency, rlErr.Reason)

    // 等满间隔后放行
    db.Exec("DELETE FROM posts")
    seedPost(t, db, user.ID, false, time.Now().Add(-time.Minute))
    assert.NoError(t, g.CheckCanPost(context.Background(), user))
}

func TestCheckCanPostModeratorLimit(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    user := seedUser(t, db, 100)

    require.NoError(t, db.Create(&model.ModeratorAction{
        ID: uuid.New().String(), UserID: user.ID,
        Type: model.ActionRateLimitOnePerWeek, CreatedAt: time.Now().Add(-time.Hour),
    }).Error)
    // 窗口内哪怕只有草稿也拦（版主档不过滤草稿）
    seedPost(t, db, user.ID, true, time.Now().Add(-2*time.Hour))

    err := g.CheckCanPost(context.Background(), user)
    var rlErr *Error
    require.ErrorAs(t, err, &rlErr)
    assert.Equal(t, ReasonModerator, rlErr.Reason)
    assert.True(t, rlErr.NextEligibleAt.IsZero())
}

func TestCommentCreatedEmitsEvent(t *testing.T) {
    db := setupGateDB(t)
    threshold := 30
    sink := &captureSink{ch: make(chan string, 1)}
    g := newTestGate(db, testConfig(&threshold), sink)
    user := seedUser(t, db, 5)
    post := seedPost(t, db, seedUser(t, db, 0).ID, false, time.Now().Add(-time.Hour))

    // 30 分钟内第 4 条评论已存在，但避开通用冷却窗口
    for i := 1; i <= 4; i++ {
        seedComment(t, db, user.ID, post.ID, time.Now().Add(-time.Duration(i)*time.Minute))
    }

    g.CommentCreated(user, "c-latest")
    select {
    case limitType := <-sink.ch:
        assert.Equal(t, string(ReasonLowKarma), limitType)
    case <-time.After(3 * time.Second):
        t.Fatal("expected a rate limit event")
    }
}

func TestCommentCreatedSkipsUniversal(t *testing.T) {
    db := setupGateDB(t)
    sink := &captureSink{ch: make(chan string, 1)}
    g := newTestGate(db, testConfig(nil), sink)
    user := seedUser(t, db, 100)
    post := seedPost(t, db, seedUser(t, db, 0).ID, false, time.Now().Add(-time.Hour))
    seedComment(t, db, user.ID, post.ID, time.Now().Add(-1*time.Second))

    g.CommentCreated(user, "c-latest")
    select {
    case <-sink.ch:
        t.Fatal("universal cooldown must not emit an event")
    case <-time.After(300 * time.Millisecond):
    }
}

func TestGateFailsClosedOnStoreError(t *testing.T) {
    db := setupGateDB(t)
    g := newTestGate(db, testConfig(nil), nil)
    user := seedUser(t, db, 100)

    // 刻意破坏取数路径：无法核实资格 ⇒ 拒绝
    require.NoError(t, db.Migrator().DropTable(&model.Comment{}))
    err := g.CheckCanComment(context.Background(), user, "")
    require.Error(t, err)
    var rlErr *Error
    assert.False(t, errors.As(err, &rlErr))
}
