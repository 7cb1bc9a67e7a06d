package main

import (
    "context"
    "fmt"
    "math"
    "math/rand"
    "os"
    "sort"
    "strconv"
    "time"

    "github.com/google/uuid"

    "github.com/d60-Lab/forum-core/config"
    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/recommend"
    "github.com/d60-Lab/forum-core/internal/repository"
    "github.com/d60-Lab/forum-core/internal/service"
    "github.com/d60-Lab/forum-core/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
    if len(vs) == 0 { return 0 }
    xs := append([]time.Duration(nil), vs...)
    sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
    k := int(math.Ceil(p*float64(len(xs)))) - 1
    if k < 0 { k = 0 }
    if k >= len(xs) { k = len(xs)-1 }
    return xs[k]
}

func main() {
    cfg := must(config.Load())
    db := must(database.InitDB(cfg))

    // params
    USERS := 2000   // seeded voters
    POSTS := 5000   // seeded posts
    REQS := 500     // recommendation calls to measure
    COUNT := 10     // posts per call
    if s := os.Getenv("USERS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { USERS = v } }
    if s := os.Getenv("POSTS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { POSTS = v } }
    if s := os.Getenv("REQS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { REQS = v } }
    if s := os.Getenv("COUNT"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { COUNT = v } }

    if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Vote{}, &model.PostRecommendation{}, &model.DatabaseMetadata{}); err != nil { panic(err) }

    // clean tables for a reproducible run (ok for local bench)
    _ = db.Exec("TRUNCATE TABLE post_recommendations, votes, posts, users RESTART IDENTITY CASCADE").Error

    tags := []string{"go", "db", "cache", "infra", "ranking", "meta"}
    users := make([]model.User, USERS)
    for i := range users {
        id := uuid.New().String()
        users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", Karma: rand.Intn(200)}
    }
    _ = db.CreateInBatches(&users, 1000).Error

    posts := make([]model.Post, POSTS)
    now := time.Now()
    for i := range posts {
        t := now.Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
        posts[i] = model.Post{
            ID:        uuid.New().String(),
            AuthorID:  users[rand.Intn(USERS)].ID,
            Title:     fmt.Sprintf("post %d", i),
            Tags:      []string{tags[rand.Intn(len(tags))], tags[rand.Intn(len(tags))]},
            BaseScore: rand.Intn(500),
            PostedAt:  &t,
            CreatedAt: t,
        }
    }
    _ = db.CreateInBatches(&posts, 1000).Error

    voteRepo := repository.NewVoteRepository(db)
    for i := 0; i < USERS*5; i++ {
        _ = voteRepo.Create(context.Background(), users[rand.Intn(USERS)].ID, posts[rand.Intn(POSTS)].ID, 1)
    }

    postRepo := repository.NewPostRepository(db)
    recRepo := repository.NewRecommendationRepository(db)
    metaRepo := repository.NewMetadataRepository(db)

    recorder := service.NewRecorder(recRepo, db, 100000)
    stopRecorder := recorder.Start(4)
    defer stopRecorder(context.Background())

    inflation := service.NewKarmaInflationWorker(postRepo, metaRepo, time.Hour)
    if err := inflation.RefreshOnce(context.Background()); err != nil { panic(err) }

    svc := recommend.NewService(postRepo, inflation, recorder, nil)

    names := recommend.AllStrategies
    durations := make([]time.Duration, 0, REQS)
    returned := 0
    for i := 0; i < REQS; i++ {
        u := &users[rand.Intn(USERS)]
        spec := recommend.Spec{Name: names[rand.Intn(len(names))], PostID: posts[rand.Intn(POSTS)].ID}
        st := time.Now()
        res, err := svc.Recommend(context.Background(), u, COUNT, spec)
        if err != nil { panic(err) }
        durations = append(durations, time.Since(st))
        returned += len(res)
    }

    var sum time.Duration
    for _, d := range durations { sum += d }
    fmt.Printf("USERS=%d POSTS=%d REQS=%d COUNT=%d\n", USERS, POSTS, REQS, COUNT)
    fmt.Printf("Recommend latency: avg=%v p95=%v p99=%v\n", sum/time.Duration(len(durations)), pct(durations, 0.95), pct(durations, 0.99))
    fmt.Printf("Avg returned per call: %.2f (impression queue=%d)\n", float64(returned)/float64(REQS), recorder.QueueLen())
}
