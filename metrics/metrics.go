package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// -----------------------------
// Domain Types
// -----------------------------

// Stage names one step of the table pipeline.
type Stage string

const (
	StageFilter   Stage = "filter"
	StageSearch   Stage = "search"
	StageSort     Stage = "sort"
	StagePaginate Stage = "paginate"
	StageLoad     Stage = "load"
	StageExport   Stage = "export"
)

// StageStats accumulates runs of one stage.
type StageStats struct {
	Stage         Stage         `json:"stage"`
	Runs          int64         `json:"runs"`
	TotalDuration time.Duration `json:"total_duration"`
	LastDuration  time.Duration `json:"last_duration"`
	LastRows      int           `json:"last_rows"`
}

// AverageDuration is the mean duration per run.
func (s StageStats) AverageDuration() time.Duration {
	if s.Runs == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Runs)
}

// Snapshot is a point-in-time copy of all stage statistics.
type Snapshot struct {
	TakenAt time.Time    `json:"taken_at"`
	Stages  []StageStats `json:"stages"`
}

// Stage returns the statistics of stage, zero when it never ran.
func (s Snapshot) Stage(stage Stage) StageStats {
	for _, st := range s.Stages {
		if st.Stage == stage {
			return st
		}
	}
	return StageStats{Stage: stage}
}

// -----------------------------
// Collectors
// -----------------------------

// Collector records pipeline stage executions.
type Collector interface {
	RecordStage(stage Stage, d time.Duration, rows int)
}

// StageCollector keeps per-stage counters in memory. It is safe for
// concurrent use.
type StageCollector struct {
	mu    sync.Mutex
	stats map[Stage]*StageStats
}

// NewStageCollector returns an empty collector.
func NewStageCollector() *StageCollector {
	return &StageCollector{stats: make(map[Stage]*StageStats)}
}

// RecordStage adds one run of stage that produced rows records.
func (c *StageCollector) RecordStage(stage Stage, d time.Duration, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.stats[stage]
	if !ok {
		st = &StageStats{Stage: stage}
		c.stats[stage] = st
	}
	st.Runs++
	st.TotalDuration += d
	st.LastDuration = d
	st.LastRows = rows
}

// Runs returns how often stage ran.
func (c *StageCollector) Runs(stage Stage) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.stats[stage]; ok {
		return st.Runs
	}
	return 0
}

// Snapshot copies the current statistics, ordered by stage name.
func (c *StageCollector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{TakenAt: time.Now().UTC(), Stages: make([]StageStats, 0, len(c.stats))}
	for _, st := range c.stats {
		snap.Stages = append(snap.Stages, *st)
	}
	sort.Slice(snap.Stages, func(i, j int) bool {
		return snap.Stages[i].Stage < snap.Stages[j].Stage
	})
	return snap
}

// Reset clears all counters.
func (c *StageCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = make(map[Stage]*StageStats)
}

// NopCollector discards everything.
type NopCollector struct{}

func (NopCollector) RecordStage(Stage, time.Duration, int) {}

// Time runs fn, records it as stage and returns its result.
func Time[T any](c Collector, stage Stage, fn func() []T) []T {
	start := time.Now()
	out := fn()
	if c != nil {
		c.RecordStage(stage, time.Since(start), len(out))
	}
	return out
}

// -----------------------------
// Metrics Storage
// -----------------------------

// MetricsStore abstracts snapshot storage.
type MetricsStore interface {
	Save(snap Snapshot) error
	SaveWithContext(ctx context.Context, snap Snapshot) error
}

// JSONMetricsStore stores snapshots as JSON.
type JSONMetricsStore struct {
	FilePath string
}

func (j *JSONMetricsStore) Save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if j.FilePath != "" {
		return os.WriteFile(j.FilePath, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}

func (j *JSONMetricsStore) SaveWithContext(ctx context.Context, snap Snapshot) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return j.Save(snap)
	}
}
