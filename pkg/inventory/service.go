package inventory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TFMV/partskeeper/logger"
	"github.com/TFMV/partskeeper/pkg/core"
	"github.com/TFMV/partskeeper/pkg/store"
)

// ErrDuplicatePart is returned when creating a part whose ID is taken.
var ErrDuplicatePart = errors.New("part already exists")

// Service is an in-memory parts backend. Every call may be delayed by a
// configured latency to mimic a remote API, and honours context
// cancellation while waiting.
type Service struct {
	mu      sync.Mutex // serializes writes
	state   *store.Store[[]Part]
	log     *zap.Logger
	newID   func() string
	now     func() time.Time
	latency time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithIDGenerator replaces the UUID generator used by Create.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithClock replaces the clock used to stamp new parts.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// WithLatency delays every call by d.
func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

// NewService returns a service holding a copy of seed.
func NewService(seed []Part, opts ...Option) *Service {
	s := &Service{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetLogger()
	}
	s.state = store.New(cloneAll(seed))
	return s
}

// State exposes the backing store so views can subscribe to changes.
// Listeners must not call back into the service's write methods.
func (s *Service) State() *store.Store[[]Part] {
	return s.state
}

// Subscribe calls fn with the full part list after every change.
func (s *Service) Subscribe(fn func(parts []Part)) (unsubscribe func()) {
	return s.state.Subscribe(func(parts, _ []Part) { fn(cloneAll(parts)) })
}

// List returns every part in insertion order.
func (s *Service) List(ctx context.Context) ([]Part, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return cloneAll(s.state.Get()), nil
}

// Get returns the part with id.
func (s *Service) Get(ctx context.Context, id string) (Part, error) {
	if err := s.wait(ctx); err != nil {
		return Part{}, err
	}
	parts := s.state.Get()
	i := indexOf(parts, id)
	if i < 0 {
		return Part{}, fmt.Errorf("get part %q: %w", id, core.ErrRecordNotFound)
	}
	return parts[i].Clone(), nil
}

// Create stores p. An empty ID is replaced by a new UUID and a zero
// AddedAt by the current time.
func (s *Service) Create(ctx context.Context, p Part) (Part, error) {
	if err := s.wait(ctx); err != nil {
		return Part{}, err
	}
	if err := p.Validate(); err != nil {
		return Part{}, fmt.Errorf("create part: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	parts := s.state.Get()

	p = p.Clone()
	if p.ID == "" {
		p.ID = s.newID()
	}
	if indexOf(parts, p.ID) >= 0 {
		return Part{}, fmt.Errorf("create part %q: %w", p.ID, ErrDuplicatePart)
	}
	if p.AddedAt.IsZero() {
		p.AddedAt = s.now().UTC()
	}

	next := append(slices.Clone(parts), p)
	s.state.Set(next)
	s.log.Info("Part created", zap.String("id", p.ID), zap.String("name", p.Name))
	return p.Clone(), nil
}

// Update replaces the stored part with the same ID.
func (s *Service) Update(ctx context.Context, p Part) (Part, error) {
	if err := s.wait(ctx); err != nil {
		return Part{}, err
	}
	if err := p.Validate(); err != nil {
		return Part{}, fmt.Errorf("update part %q: %w", p.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	parts := s.state.Get()
	i := indexOf(parts, p.ID)
	if i < 0 {
		return Part{}, fmt.Errorf("update part %q: %w", p.ID, core.ErrRecordNotFound)
	}

	p = p.Clone()
	if p.AddedAt.IsZero() {
		p.AddedAt = parts[i].AddedAt
	}
	next := slices.Clone(parts)
	next[i] = p
	s.state.Set(next)
	s.log.Info("Part updated", zap.String("id", p.ID))
	return p.Clone(), nil
}

// Delete removes the part with id.
func (s *Service) Delete(ctx context.Context, id string) error {
	n, err := s.DeleteMany(ctx, []string{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete part %q: %w", id, core.ErrRecordNotFound)
	}
	return nil
}

// DeleteMany removes every part whose ID is in ids and returns how many
// were removed. Unknown IDs are skipped.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	parts := s.state.Get()
	next := slices.DeleteFunc(slices.Clone(parts), func(p Part) bool {
		_, ok := drop[p.ID]
		return ok
	})
	removed := len(parts) - len(next)
	if removed == 0 {
		return 0, nil
	}
	s.state.Set(next)
	s.log.Info("Parts deleted", zap.Int("count", removed))
	return removed, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func indexOf(parts []Part, id string) int {
	return slices.IndexFunc(parts, func(p Part) bool { return p.ID == id })
}

func cloneAll(parts []Part) []Part {
	out := make([]Part, len(parts))
	for i, p := range parts {
		out[i] = p.Clone()
	}
	return out
}
