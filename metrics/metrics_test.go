package metrics

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageCollector(t *testing.T) {
	c := NewStageCollector()
	c.RecordStage(StageFilter, 2*time.Millisecond, 10)
	c.RecordStage(StageFilter, 4*time.Millisecond, 8)
	c.RecordStage(StageSort, time.Millisecond, 8)

	assert.Equal(t, int64(2), c.Runs(StageFilter))
	assert.Equal(t, int64(1), c.Runs(StageSort))
	assert.Equal(t, int64(0), c.Runs(StagePaginate))

	snap := c.Snapshot()
	require.Len(t, snap.Stages, 2)
	assert.Equal(t, StageFilter, snap.Stages[0].Stage)

	filter := snap.Stage(StageFilter)
	assert.Equal(t, 6*time.Millisecond, filter.TotalDuration)
	assert.Equal(t, 4*time.Millisecond, filter.LastDuration)
	assert.Equal(t, 3*time.Millisecond, filter.AverageDuration())
	assert.Equal(t, 8, filter.LastRows)
	assert.Zero(t, snap.Stage(StageExport).Runs)

	c.Reset()
	assert.Empty(t, c.Snapshot().Stages)
}

func TestStageCollectorConcurrent(t *testing.T) {
	c := NewStageCollector()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordStage(StageLoad, time.Microsecond, 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(20), c.Runs(StageLoad))
}

func TestTime(t *testing.T) {
	c := NewStageCollector()
	out := Time(c, StagePaginate, func() []int { return []int{1, 2, 3} })
	assert.Equal(t, []int{1, 2, 3}, out)
	assert.Equal(t, 3, c.Snapshot().Stage(StagePaginate).LastRows)

	assert.NotPanics(t, func() {
		Time[int](nil, StageSort, func() []int { return nil })
		Time[int](NopCollector{}, StageSort, func() []int { return nil })
	})
}

func TestJSONMetricsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.json")
	c := NewStageCollector()
	c.RecordStage(StageSearch, time.Millisecond, 5)

	store := &JSONMetricsStore{FilePath: path}
	require.NoError(t, store.Save(c.Snapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Snapshot
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, int64(1), loaded.Stage(StageSearch).Runs)
}

func TestSaveWithContext(t *testing.T) {
	store := &JSONMetricsStore{FilePath: filepath.Join(t.TempDir(), "metrics.json")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.SaveWithContext(ctx, Snapshot{})
	assert.ErrorIs(t, err, context.Canceled)
}
