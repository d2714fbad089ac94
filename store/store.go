// Package store owns the authoritative task collection. It is the single
// writer: every mutation is validated here, applied atomically, and followed
// by a broadcast of the full snapshot to every subscriber before the
// operation's result is delivered.
package store

import (
	"context"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/domain"
)

// Listener receives the full snapshot, in insertion order, immediately on
// subscribing and again after every mutation. Snapshots are copies and must
// not be fed back into the store by reference.
type Listener = func(snapshot []domain.Task)

type subscriber struct {
	token string
	fn    Listener
}

// Store is the in-memory task collection with a publish/subscribe surface.
// Mutations happen synchronously at call time; the configured latency is
// applied only to result delivery, so a later call always observes the
// effect of an earlier one even when the earlier result is still in flight.
type Store struct {
	logger  *zap.Logger
	latency time.Duration
	now     func() time.Time

	mu    sync.Mutex
	tasks []*domain.Task
	index map[string]*domain.Task
	subs  []subscriber
}

// New constructs a store. Seed tasks supplied through WithSeed are inserted
// before New returns, without latency or broadcasts.
func New(logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		logger: logger,
		now:    time.Now,
		index:  make(map[string]*domain.Task),
	}
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.latency > 0 {
		s.latency = cfg.latency
	}
	if cfg.now != nil {
		s.now = cfg.now
	}
	for _, req := range cfg.seeds {
		if _, err := s.insert(req); err != nil {
			s.logger.Warn("seed task skipped", zap.String("title", req.Title), zap.Error(err))
		}
	}
	return s
}

// List returns the current snapshot in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

// ListByStatus returns the snapshot filtered by completion state.
func (s *Store) ListByStatus(ctx context.Context, completed bool) ([]domain.Task, error) {
	s.mu.Lock()
	matched := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Completed == completed {
			matched = append(matched, *t)
		}
	}
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return matched, nil
}

// GetByID returns a copy of the matching task, or domain.ErrTaskNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	task, ok := s.index[id]
	var out domain.Task
	if ok {
		out = *task
	}
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &out, nil
}

// Create validates the request, persists a new task and broadcasts the
// updated snapshot. The new id is unique for the process lifetime; ids are
// never reused, even after deletion.
func (s *Store) Create(ctx context.Context, req domain.CreateRequest) (*domain.Task, error) {
	s.mu.Lock()
	task, err := s.insert(req)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("create rejected", zap.Error(err))
		return nil, s.fail(ctx, err)
	}
	out := *task
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	s.dispatch(snap, subs)
	s.logger.Info("task created", zap.String("task_id", out.ID), zap.String("title", out.Title))
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update merges the request into the stored task. Validation runs before
// any field is touched, so a rejected update leaves the task unchanged.
func (s *Store) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Task, error) {
	s.mu.Lock()
	task, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("update rejected", zap.String("task_id", id), zap.Error(domain.ErrTaskNotFound))
		return nil, s.fail(ctx, domain.ErrTaskNotFound)
	}

	var title string
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
		if title == "" {
			s.mu.Unlock()
			s.logger.Debug("update rejected", zap.String("task_id", id), zap.Error(domain.ErrEmptyTitle))
			return nil, s.fail(ctx, domain.ErrEmptyTitle)
		}
	}

	if req.Title != nil {
		task.Title = title
	}
	if req.Description != nil {
		// An explicit empty description clears the stored one.
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	task.UpdatedAt = s.now()
	out := *task
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	s.dispatch(snap, subs)
	s.logger.Info("task updated", zap.String("task_id", out.ID))
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the task with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.index[id]; !ok {
		s.mu.Unlock()
		s.logger.Debug("delete rejected", zap.String("task_id", id), zap.Error(domain.ErrTaskNotFound))
		return s.fail(ctx, domain.ErrTaskNotFound)
	}
	delete(s.index, id)
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	s.dispatch(snap, subs)
	s.logger.Info("task deleted", zap.String("task_id", id))
	return s.wait(ctx)
}

// ToggleCompletion flips the completed flag by delegating to Update, so it
// fails identically to Update on an unknown id.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	task, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return nil, s.fail(ctx, domain.ErrTaskNotFound)
	}
	next := !task.Completed
	s.mu.Unlock()

	return s.Update(ctx, id, domain.UpdateRequest{Completed: &next})
}

// Subscribe registers fn and immediately delivers the current snapshot.
// The returned token cancels future deliveries via Unsubscribe.
func (s *Store) Subscribe(fn Listener) string {
	s.mu.Lock()
	token := uuid.NewString()
	s.subs = append(s.subs, subscriber{token: token, fn: fn})
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.safeCall(fn, snap)
	return token
}

// Unsubscribe removes a subscription by token. It is safe to call with a
// token that was already removed; the second call reports false.
func (s *Store) Unsubscribe(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.token == token {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return true
		}
	}
	return false
}

// SubscriberCount returns the number of active subscriptions.
func (s *Store) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// insert trims, validates and appends a new task. Caller holds s.mu (or, at
// construction time, exclusive access).
func (s *Store) insert(req domain.CreateRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	now := s.now()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append(s.tasks, task)
	s.index[task.ID] = task
	return task, nil
}

func (s *Store) snapshotLocked() []domain.Task {
	snap := make([]domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		snap[i] = *t
	}
	return snap
}

func (s *Store) subscribersLocked() []subscriber {
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	return subs
}

// dispatch delivers the snapshot to the subscribers captured at mutation
// time. It runs outside the lock so listeners may call back into the store.
func (s *Store) dispatch(snap []domain.Task, subs []subscriber) {
	for _, sub := range subs {
		s.safeCall(sub.fn, snap)
	}
}

// safeCall invokes a listener and recovers from panics so one misbehaving
// subscriber cannot block delivery to the others.
func (s *Store) safeCall(fn Listener, snap []domain.Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	fn(snap)
}

// wait simulates result-delivery latency. The mutation has already been
// applied and broadcast by the time wait runs; cancellation aborts only the
// delivery, never the mutation.
func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fail delivers a typed failure after the same latency as a success.
func (s *Store) fail(ctx context.Context, err error) error {
	if werr := s.wait(ctx); werr != nil {
		return werr
	}
	return err
}
