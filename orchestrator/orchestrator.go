// Package orchestrator bridges the store's asynchronous, broadcast-driven
// interface to the transient state the rendering layer displays: the
// mirrored snapshot, loading/submitting flags, the task under edit, and
// auto-expiring status messages.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/domain"
	"github.com/taskdeck/taskdeck/store"
)

// fallbackErrorText is shown when a failure carries no message of its own.
const fallbackErrorText = "something went wrong"

// defaultMessageTTL is how long a success message stays visible unless a
// newer message supersedes it.
const defaultMessageTTL = 3 * time.Second

// TaskStore is the slice of the store the orchestrator drives. It never
// touches the collection directly; every change round-trips through these
// operations.
type TaskStore interface {
	Create(ctx context.Context, req domain.CreateRequest) (*domain.Task, error)
	Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	ToggleCompletion(ctx context.Context, id string) (*domain.Task, error)
	Subscribe(fn store.Listener) string
	Unsubscribe(token string) bool
}

// State is an atomic view of the orchestrator for rendering. Tasks and
// Editing are copies; mutate them only by calling back into the
// orchestrator.
type State struct {
	Tasks      []domain.Task
	Loading    bool
	Submitting bool
	Editing    *domain.Task
	Error      string
	Success    string
}

// Orchestrator sequences user-initiated commands against the store and owns
// the presentation-facing transient state. All methods are safe for
// concurrent use; after Close no state mutation occurs, even when an
// in-flight store call resolves later.
type Orchestrator struct {
	store  TaskStore
	logger *zap.Logger
	ttl    time.Duration

	mu         sync.Mutex
	snapshot   []domain.Task
	loading    bool
	submitting bool
	editing    *domain.Task
	errMsg     string
	successMsg string
	msgTimer   *time.Timer
	subToken   string
	closed     bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMessageTTL overrides how long success messages stay visible.
func WithMessageTTL(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// New constructs an orchestrator over the given store. Call Start to begin
// mirroring snapshots and Close to tear everything down.
func New(st TaskStore, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		store:  st,
		logger: logger,
		ttl:    defaultMessageTTL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start raises the loading flag and subscribes to the store's snapshot
// channel. The store delivers the current snapshot synchronously on
// subscribing, which clears the flag again. Start is a no-op once the
// orchestrator is subscribed or closed.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	if o.closed || o.subToken != "" {
		o.mu.Unlock()
		return
	}
	o.loading = true
	o.clearMessagesLocked()
	o.mu.Unlock()

	token := o.store.Subscribe(o.onSnapshot)

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		o.store.Unsubscribe(token)
		return
	}
	o.subToken = token
	o.mu.Unlock()
}

func (o *Orchestrator) onSnapshot(snapshot []domain.Task) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.snapshot = snapshot
	o.loading = false
}

// Submit routes to update when a task is being edited at submit time,
// otherwise to create. The two paths are mutually exclusive.
func (o *Orchestrator) Submit(ctx context.Context, title, description string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.submitting = true
	o.clearMessagesLocked()
	editing := o.editing
	o.mu.Unlock()

	if editing != nil {
		updated, err := o.store.Update(ctx, editing.ID, domain.UpdateRequest{
			Title:       &title,
			Description: &description,
		})
		o.finishSubmit(updated, err, true)
		return
	}

	created, err := o.store.Create(ctx, domain.CreateRequest{
		Title:       title,
		Description: description,
	})
	o.finishSubmit(created, err, false)
}

func (o *Orchestrator) finishSubmit(task *domain.Task, err error, wasEdit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.submitting = false
	if err != nil {
		o.errMsg = errorText(err)
		o.logger.Debug("submit failed", zap.Bool("edit", wasEdit), zap.Error(err))
		return
	}
	if wasEdit {
		o.editing = nil
		o.setSuccessLocked(fmt.Sprintf("Task %q updated", task.Title))
		return
	}
	o.setSuccessLocked(fmt.Sprintf("Task %q created", task.Title))
}

// Toggle flips a task's completion state and reports the new state.
func (o *Orchestrator) Toggle(ctx context.Context, id string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.clearMessagesLocked()
	o.mu.Unlock()

	task, err := o.store.ToggleCompletion(ctx, id)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	if err != nil {
		o.errMsg = errorText(err)
		return
	}
	state := "pending"
	if task.Completed {
		state = "completed"
	}
	o.setSuccessLocked(fmt.Sprintf("Task %q marked %s", task.Title, state))
}

// Delete removes a task. If the removed task was the one being edited, the
// editing reference is cleared with it.
func (o *Orchestrator) Delete(ctx context.Context, id string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.clearMessagesLocked()
	o.mu.Unlock()

	err := o.store.Delete(ctx, id)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	if err != nil {
		o.errMsg = errorText(err)
		return
	}
	if o.editing != nil && o.editing.ID == id {
		o.editing = nil
	}
	o.setSuccessLocked("Task deleted")
}

// BeginEdit marks the given task as the one under edit. The snapshot is
// untouched.
func (o *Orchestrator) BeginEdit(task domain.Task) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	copied := task
	o.editing = &copied
	o.clearMessagesLocked()
}

// CancelEdit drops the editing reference.
func (o *Orchestrator) CancelEdit() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.editing = nil
	o.clearMessagesLocked()
}

// DismissError clears the displayed error message.
func (o *Orchestrator) DismissError() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.errMsg = ""
}

// State returns a consistent view of the orchestrator for rendering.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := State{
		Tasks:      o.snapshot,
		Loading:    o.loading,
		Submitting: o.submitting,
		Error:      o.errMsg,
		Success:    o.successMsg,
	}
	if o.editing != nil {
		copied := *o.editing
		st.Editing = &copied
	}
	return st
}

// Close cancels the subscription and any pending message timer as a unit.
// It is idempotent.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	if o.msgTimer != nil {
		o.msgTimer.Stop()
		o.msgTimer = nil
	}
	token := o.subToken
	o.subToken = ""
	o.mu.Unlock()

	if token != "" {
		o.store.Unsubscribe(token)
	}
	o.logger.Debug("orchestrator closed")
}

// setSuccessLocked shows msg and arms its expiry timer, superseding any
// message already on screen. Caller holds o.mu.
func (o *Orchestrator) setSuccessLocked(msg string) {
	o.successMsg = msg
	if o.msgTimer != nil {
		o.msgTimer.Stop()
	}
	o.msgTimer = time.AfterFunc(o.ttl, o.expireSuccess)
}

func (o *Orchestrator) expireSuccess() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.successMsg = ""
}

// clearMessagesLocked wipes both messages and disarms the expiry timer.
// Caller holds o.mu.
func (o *Orchestrator) clearMessagesLocked() {
	o.errMsg = ""
	o.successMsg = ""
	if o.msgTimer != nil {
		o.msgTimer.Stop()
		o.msgTimer = nil
	}
}

// errorText relays the failure's message verbatim, falling back to a
// generic line when there is none.
func errorText(err error) string {
	if err == nil || err.Error() == "" {
		return fallbackErrorText
	}
	return err.Error()
}
