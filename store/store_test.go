package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/domain"
)

func ptr[T any](v T) *T { return &v }

// steppingClock returns a clock that advances one second per reading.
func steppingClock() func() time.Time {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	tick := 0
	return func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
}

func mustCreate(t *testing.T, s *Store, title, description string) *domain.Task {
	t.Helper()
	task, err := s.Create(context.Background(), domain.CreateRequest{Title: title, Description: description})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", title, err)
	}
	return task
}

func listLen(t *testing.T, s *Store) int {
	t.Helper()
	tasks, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	return len(tasks)
}

func TestStore_SeedData(t *testing.T) {
	s := New(nil, WithSeed(DefaultSeeds()...))

	tasks, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 seed tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Learn Go 1.25" {
		t.Errorf("expected first seed title %q, got %q", "Learn Go 1.25", tasks[0].Title)
	}
	for _, task := range tasks {
		if task.Completed {
			t.Errorf("seed task %q should not be completed", task.Title)
		}
	}
}

func TestStore_CreateTrimsInput(t *testing.T) {
	s := New(nil)

	task := mustCreate(t, s, "  A  ", "  B  ")

	if task.Title != "A" {
		t.Errorf("expected trimmed title %q, got %q", "A", task.Title)
	}
	if task.Description != "B" {
		t.Errorf("expected trimmed description %q, got %q", "B", task.Description)
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
	if task.ID == "" {
		t.Error("new task should have an id")
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("expected CreatedAt == UpdatedAt, got %v and %v", task.CreatedAt, task.UpdatedAt)
	}
}

func TestStore_CreateRejectsBlankTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t \n"} {
		s := New(nil, WithSeed(DefaultSeeds()...))

		_, err := s.Create(context.Background(), domain.CreateRequest{Title: title})
		if !domain.IsValidation(err) {
			t.Errorf("Create(%q): expected validation error, got %v", title, err)
		}
		if !errors.Is(err, domain.ErrEmptyTitle) {
			t.Errorf("Create(%q): expected ErrEmptyTitle, got %v", title, err)
		}
		if n := listLen(t, s); n != 3 {
			t.Errorf("Create(%q): collection size changed to %d", title, n)
		}
	}
}

func TestStore_CreateDistinctIDsWithinOneClockTick(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s := New(nil, WithClock(func() time.Time { return fixed }))

	first := mustCreate(t, s, "one", "")
	second := mustCreate(t, s, "two", "")

	if first.ID == second.ID {
		t.Errorf("expected distinct ids, both were %q", first.ID)
	}
}

func TestStore_GetByID(t *testing.T) {
	s := New(nil)
	created := mustCreate(t, s, "find me", "")

	got, err := s.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "find me" {
		t.Errorf("expected title %q, got %q", "find me", got.Title)
	}

	_, err = s.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound sentinel, got %v", err)
	}
}

func TestStore_UpdateMergesFields(t *testing.T) {
	s := New(nil, WithClock(steppingClock()))
	created := mustCreate(t, s, "title", "description")

	// Only the title changes; description and completed stay put.
	updated, err := s.Update(context.Background(), created.ID, domain.UpdateRequest{Title: ptr(" new title ")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "new title" {
		t.Errorf("expected title %q, got %q", "new title", updated.Title)
	}
	if updated.Description != "description" {
		t.Errorf("omitted description changed to %q", updated.Description)
	}
	if updated.Completed {
		t.Error("omitted completed flag changed")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("UpdatedAt %v should be after CreatedAt %v", updated.UpdatedAt, updated.CreatedAt)
	}

	// Only the completed flag changes.
	updated, err = s.Update(context.Background(), created.ID, domain.UpdateRequest{Completed: ptr(true)})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.Completed {
		t.Error("completed flag not applied")
	}
	if updated.Title != "new title" {
		t.Errorf("omitted title changed to %q", updated.Title)
	}
}

func TestStore_UpdateRejectsBlankTitle(t *testing.T) {
	s := New(nil)
	created := mustCreate(t, s, "keep me", "desc")

	_, err := s.Update(context.Background(), created.ID, domain.UpdateRequest{Title: ptr("   ")})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, err := s.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "keep me" || got.Description != "desc" {
		t.Errorf("rejected update mutated the task: %+v", got)
	}
	if !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Error("rejected update refreshed UpdatedAt")
	}
}

func TestStore_UpdateClearsDescription(t *testing.T) {
	s := New(nil)
	created := mustCreate(t, s, "task", "something")

	updated, err := s.Update(context.Background(), created.ID, domain.UpdateRequest{Description: ptr("")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Description != "" {
		t.Errorf("explicit empty description should clear it, got %q", updated.Description)
	}
}

func TestStore_UnknownIDFailures(t *testing.T) {
	s := New(nil, WithSeed(DefaultSeeds()...))
	ctx := context.Background()

	if _, err := s.Update(ctx, "nope", domain.UpdateRequest{Title: ptr("x")}); !domain.IsNotFound(err) {
		t.Errorf("Update: expected not-found error, got %v", err)
	}
	if err := s.Delete(ctx, "nope"); !domain.IsNotFound(err) {
		t.Errorf("Delete: expected not-found error, got %v", err)
	}
	if _, err := s.ToggleCompletion(ctx, "nope"); !domain.IsNotFound(err) {
		t.Errorf("ToggleCompletion: expected not-found error, got %v", err)
	}
	if n := listLen(t, s); n != 3 {
		t.Errorf("failed operations changed collection size to %d", n)
	}
}

func TestStore_DeleteRemovesTask(t *testing.T) {
	s := New(nil, WithSeed(DefaultSeeds()...))
	created := mustCreate(t, s, "short lived", "")

	if err := s.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.GetByID(context.Background(), created.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("deleted task still resolvable, err = %v", err)
	}
	if n := listLen(t, s); n != 3 {
		t.Errorf("expected 3 tasks after delete, got %d", n)
	}
}

func TestStore_ToggleTwiceRoundTrips(t *testing.T) {
	s := New(nil, WithClock(steppingClock()))
	created := mustCreate(t, s, "flip me", "desc")
	ctx := context.Background()

	once, err := s.ToggleCompletion(ctx, created.ID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !once.Completed {
		t.Error("first toggle should mark the task completed")
	}

	twice, err := s.ToggleCompletion(ctx, created.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if twice.Completed {
		t.Error("second toggle should restore the original state")
	}
	if twice.Title != created.Title || twice.Description != created.Description {
		t.Errorf("toggle changed unrelated fields: %+v", twice)
	}
	if !twice.CreatedAt.Equal(created.CreatedAt) {
		t.Error("toggle changed CreatedAt")
	}
}

func TestStore_ListByStatus(t *testing.T) {
	s := New(nil, WithSeed(DefaultSeeds()...))
	ctx := context.Background()
	created := mustCreate(t, s, "done already", "")
	if _, err := s.ToggleCompletion(ctx, created.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	completed, err := s.ListByStatus(ctx, true)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != created.ID {
		t.Errorf("expected only the toggled task, got %v", completed)
	}

	pending, err := s.ListByStatus(ctx, false)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("expected 3 pending tasks, got %d", len(pending))
	}
}
