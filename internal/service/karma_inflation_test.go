package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/repository"
)

func sample(at time.Time, score int) repository.ScoreSample {
    return repository.ScoreSample{PostedAt: at, BaseScore: score}
}

func TestComputeInflationSeriesEmpty(t *testing.T) {
    s := computeInflationSeries(nil, inflationWindow)
    assert.Empty(t, s.Values)
    assert.Equal(t, 1.0, s.FactorAt(time.Now()))
}

func TestComputeInflationSeriesReciprocalMeans(t *testing.T) {
    base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
    samples := []repository.ScoreSample{
        // 第 0 窗：平均 4
        sample(base, 2),
        sample(base.Add(24*time.Hour), 6),
        // 第 1 窗：平均 10
        sample(base.Add(inflationWindow), 10),
        // 第 2 窗：平均 20（最后一窗，会被倒数第二窗覆盖）
        sample(base.Add(2*inflationWindow), 20),
    }
    s := computeInflationSeries(samples, inflationWindow)
    require.Len(t, s.Values, 3)
    assert.InDelta(t, 0.25, s.Values[0], 1e-9)
    assert.InDelta(t, 0.1, s.Values[1], 1e-9)
    // 最后一个窗口不完整，用前一窗的值
    assert.InDelta(t, 0.1, s.Values[2], 1e-9)
}

func TestComputeInflationSeriesGapFallsBackToOverallMean(t *testing.T) {
    base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
    samples := []repository.ScoreSample{
        // 第 0 窗平均 10，第 2 窗平均 30，第 1 窗没有帖子
        sample(base, 10),
        sample(base.Add(2*inflationWindow), 30),
        sample(base.Add(2*inflationWindow+time.Hour), 30),
    }
    s := computeInflationSeries(samples, inflationWindow)
    require.Len(t, s.Values, 3)
    // 全局平均 (10+30+30)/3
    assert.InDelta(t, 1.0/(70.0/3.0), s.Values[1], 1e-9)
    assert.InDelta(t, 0.1, s.Values[0], 1e-9)
}

func TestComputeInflationSeriesZeroMean(t *testing.T) {
    base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
    s := computeInflationSeries([]repository.ScoreSample{sample(base, 0)}, inflationWindow)
    require.Len(t, s.Values, 1)
    assert.Equal(t, 1.0, s.Values[0])
}

func TestInflationSeriesFactorAtClamps(t *testing.T) {
    base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
    s := &InflationSeries{
        Start:      base.UnixMilli(),
        IntervalMs: inflationWindow.Milliseconds(),
        Values:     []float64{0.5, 0.25, 0.1},
    }
    assert.Equal(t, 0.5, s.FactorAt(base.Add(time.Hour)))
    assert.Equal(t, 0.25, s.FactorAt(base.Add(inflationWindow+time.Hour)))
    // 序列起点之前 → 第一个窗
    assert.Equal(t, 0.5, s.FactorAt(base.Add(-24*time.Hour)))
    // 序列终点之后 → 最后一个窗
    assert.Equal(t, 0.1, s.FactorAt(base.Add(100*inflationWindow)))
}

func TestKarmaInflationRefreshAndReload(t *testing.T) {
    db := setupServiceDB(t)
    posts := repository.NewPostRepository(db)
    meta := repository.NewMetadataRepository(db)

    base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
    mk := func(id string, at time.Time, score int) {
        require.NoError(t, db.Create(&model.Post{ID: id, AuthorID: "a1", BaseScore: score, PostedAt: &at, CreatedAt: at}).Error)
    }
    mk("p1", base, 5)
    mk("p2", base.Add(inflationWindow), 10)

    w := NewKarmaInflationWorker(posts, meta, time.Hour)
    require.NoError(t, w.RefreshOnce(context.Background()))

    series := w.Series()
    require.Len(t, series.Values, 2)
    assert.InDelta(t, 0.2, w.FactorAt(base), 1e-9)

    // 新进程从 database_metadata 恢复同一份序列
    w2 := NewKarmaInflationWorker(posts, meta, time.Hour)
    require.NoError(t, w2.loadFromStore(context.Background()))
    assert.Equal(t, series.Values, w2.Series().Values)
    assert.Equal(t, series.Start, w2.Series().Start)
}
