package service

import (
    "context"
    "encoding/json"
    "sync/atomic"
    "time"

    "go.uber.org/zap"

    "github.com/d60-Lab/forum-core/internal/repository"
    "github.com/d60-Lab/forum-core/pkg/logger"
)

// 28 天一个平均窗口
const inflationWindow = 28 * 24 * time.Hour

const metadataKeyKarmaInflation = "karmaInflationSeries"

// InflationSeries karma 通胀时间序列：每个窗口的 1/平均分
type InflationSeries struct {
    Start      int64     `json:"start"`    // unix 毫秒
    IntervalMs int64     `json:"interval"` // 窗口长度（毫秒）
    Values     []float64 `json:"values"`
}

// FactorAt 给定发帖时间的归一化因子；空序列恒为 1
func (s *InflationSeries) FactorAt(postedAt time.Time) float64 {
    if s == nil || len(s.Values) == 0 || s.IntervalMs <= 0 {
        return 1
    }
    idx := int((postedAt.UnixMilli() - s.Start) / s.IntervalMs)
    if idx < 0 {
        idx = 0
    }
    if idx >= len(s.Values) {
        idx = len(s.Values) - 1
    }
    return s.Values[idx]
}

// KarmaInflationWorker 定期重算通胀序列并落到 database_metadata，
// 进程内留一份原子快照供 bestOf 策略读取
type KarmaInflationWorker struct {
    posts    repository.PostRepository
    meta     repository.MetadataRepository
    interval time.Duration
    current  atomic.Pointer[InflationSeries]
}

func NewKarmaInflationWorker(posts repository.PostRepository, meta repository.MetadataRepository, refreshInterval time.Duration) *KarmaInflationWorker {
    if refreshInterval <= 0 {
        refreshInterval = 24 * time.Hour
    }
    w := &KarmaInflationWorker{posts: posts, meta: meta, interval: refreshInterval}
    w.current.Store(&InflationSeries{})
    return w
}

// FactorAt 实现 recommend.ScoreAdjuster
func (w *KarmaInflationWorker) FactorAt(postedAt time.Time) float64 {
    return w.current.Load().FactorAt(postedAt)
}

// Series 当前快照（测试用）
func (w *KarmaInflationWorker) Series() *InflationSeries { return w.current.Load() }

// Start 启动时先从存量元数据恢复快照，再按周期重算；返回停止函数。
func (w *KarmaInflationWorker) Start() func(context.Context) error {
    {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        if err := w.loadFromStore(ctx); err != nil {
            logger.Warn("karma inflation cache load failed", zap.Error(err))
        }
        cancel()
    }
    stop := make(chan struct{})
    go func() {
        ticker := time.NewTicker(w.interval)
        defer ticker.Stop()
        for {
            select {
            case <-stop:
                return
            case <-ticker.C:
                ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
                if err := w.RefreshOnce(ctx); err != nil {
                    logger.Warn("karma inflation refresh failed", zap.Error(err))
                }
                cancel()
            }
        }
    }()
    return func(ctx context.Context) error { close(stop); return nil }
}

// RefreshOnce 按发帖时间分窗口求平均分的倒数；没有帖子的窗口用全局
// 平均兜底，最后一个窗口大概率不完整，用倒数第二个窗口的值顶替
func (w *KarmaInflationWorker) RefreshOnce(ctx context.Context) error {
    samples, err := w.posts.ScoreSamples(ctx)
    if err != nil {
        return err
    }
    series := computeInflationSeries(samples, inflationWindow)
    payload, err := json.Marshal(series)
    if err != nil {
        return err
    }
    if err := w.meta.UpsertValue(ctx, metadataKeyKarmaInflation, string(payload)); err != nil {
        return err
    }
    w.current.Store(series)
    return nil
}

func (w *KarmaInflationWorker) loadFromStore(ctx context.Context) error {
    raw, ok, err := w.meta.GetValue(ctx, metadataKeyKarmaInflation)
    if err != nil || !ok {
        return err
    }
    var series InflationSeries
    if err := json.Unmarshal([]byte(raw), &series); err != nil {
        return err
    }
    w.current.Store(&series)
    return nil
}

func reciprocalOrOne(x float64) float64 {
    if x == 0 {
        return 1
    }
    return 1 / x
}

func computeInflationSeries(samples []repository.ScoreSample, window time.Duration) *InflationSeries {
    if len(samples) == 0 {
        return &InflationSeries{}
    }
    intervalMs := window.Milliseconds()
    start := samples[0].PostedAt.UnixMilli()

    type bucket struct {
        sum   float64
        count int
    }
    buckets := map[int]*bucket{}
    maxIdx := 0
    var total float64
    for _, s := range samples {
        idx := int((s.PostedAt.UnixMilli() - start) / intervalMs)
        if idx < 0 {
            idx = 0
        }
        b := buckets[idx]
        if b == nil {
            b = &bucket{}
            buckets[idx] = b
        }
        b.sum += float64(s.BaseScore)
        b.count++
        total += float64(s.BaseScore)
        if idx > maxIdx {
            maxIdx = idx
        }
    }
    overallMean := total / float64(len(samples))

    values := make([]float64, maxIdx+1)
    for i := range values {
        values[i] = reciprocalOrOne(overallMean)
    }
    for idx, b := range buckets {
        values[idx] = reciprocalOrOne(b.sum / float64(b.count))
    }
    if len(values) > 1 {
        values[len(values)-1] = values[len(values)-2]
    }
    return &InflationSeries{Start: start, IntervalMs: intervalMs, Values: values}
}
