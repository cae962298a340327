package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/pkg/core"
)

func newTestService(seed []Part, opts ...Option) *Service {
	n := 0
	opts = append([]Option{
		WithLogger(zap.NewNop()),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("gen-%d", n) }),
		WithClock(func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }),
	}, opts...)
	return NewService(seed, opts...)
}

func TestServiceCRUD(t *testing.T) {
	ctx := context.Background()
	svc := newTestService([]Part{{ID: "a", Name: "Ryzen 5 7600", Price: 199}})

	created, err := svc.Create(ctx, Part{Name: "RTX 4070", Price: 599, Stock: IntPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", created.ID)
	assert.Equal(t, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC), created.AddedAt)

	got, err := svc.Get(ctx, "gen-1")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Price = 549
	updated, err := svc.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, 549.0, updated.Price)
	assert.Equal(t, created.AddedAt, updated.AddedAt)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, 549.0, all[1].Price)

	require.NoError(t, svc.Delete(ctx, "a"))
	all, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestServiceErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService([]Part{{ID: "a", Name: "Ryzen 5 7600"}})

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrRecordNotFound)

	_, err = svc.Update(ctx, Part{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, core.ErrRecordNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "missing"), core.ErrRecordNotFound)

	_, err = svc.Create(ctx, Part{ID: "a", Name: "dup"})
	assert.ErrorIs(t, err, ErrDuplicatePart)

	_, err = svc.Create(ctx, Part{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidPart)

	_, err = svc.Update(ctx, Part{ID: "a", Price: -5, Name: "x"})
	assert.ErrorIs(t, err, ErrInvalidPart)
}

func TestServiceReturnsCopies(t *testing.T) {
	ctx := context.Background()
	seed := []Part{{ID: "a", Name: "RAM", Stock: IntPtr(4)}}
	svc := newTestService(seed)

	*seed[0].Stock = 100
	got, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 4, *got.Stock)

	*got.Stock = 50
	again, _ := svc.Get(ctx, "a")
	assert.Equal(t, 4, *again.Stock)
}

func TestServiceDeleteMany(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(SampleParts(10, 1))

	n, err := svc.DeleteMany(ctx, []string{"part-00002", "part-00005", "nope"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.DeleteMany(ctx, []string{"nope"})
	require.NoError(t, err)
	assert.Zero(t, n)

	all, _ := svc.List(ctx)
	assert.Len(t, all, 8)
}

func TestServiceSubscribe(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(nil)

	var sizes []int
	unsubscribe := svc.Subscribe(func(parts []Part) { sizes = append(sizes, len(parts)) })

	_, err := svc.Create(ctx, Part{Name: "PSU"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Part{Name: "Case"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "gen-1"))

	unsubscribe()
	_, err = svc.Create(ctx, Part{Name: "Fan"})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 1}, sizes)
}

func TestServiceLatencyHonoursContext(t *testing.T) {
	svc := newTestService(nil, WithLatency(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	fast := newTestService(nil, WithLatency(time.Millisecond))
	_, err = fast.Create(context.Background(), Part{Name: "Cooler"})
	assert.NoError(t, err)
}
