// Package store owns the in-memory task list and unlocked awards, persists
// them after every mutation and keeps reminders in step with the tasks.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/harrisonrobin/spacepod/pkg/catalog"
	"github.com/harrisonrobin/spacepod/pkg/codec"
	"github.com/harrisonrobin/spacepod/pkg/kv"
	"github.com/harrisonrobin/spacepod/pkg/model"
)

// DefaultKey is the persistence slot holding the state blob.
const DefaultKey = "app_json_data2"

var (
	ErrUnknownSubject  = errors.New("unknown subject")
	ErrNoAwardsDefined = errors.New("subject has no awards")
	ErrDuplicateTask   = errors.New("task already exists")
)

// PersistError reports a failed write to the persistence slot. The in-memory
// mutation that triggered the save is kept.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Reminders recomputes alerts from the current task list.
type Reminders interface {
	Recompute(ctx context.Context, tasks []model.Task)
}

// Store is safe for concurrent use; every operation holds one lock from
// mutation through persistence.
type Store struct {
	slot      kv.Store
	catalog   catalog.Catalog
	reminders Reminders
	key       string
	now       func() time.Time
	newID     func() string
	log       *log.Helper

	mu     sync.Mutex
	tasks  []model.Task
	awards []model.UnlockedAward

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithLogger(logger log.Logger) Option {
	return func(s *Store) {
		s.log = log.NewHelper(log.With(logger, "component", "store"))
	}
}

// New returns an empty store. Call Load to restore persisted state.
func New(slot kv.Store, cat catalog.Catalog, rem Reminders, opts ...Option) *Store {
	s := &Store{
		slot:      slot,
		catalog:   cat,
		reminders: rem,
		key:       DefaultKey,
		now:       time.Now,
		newID:     uuid.NewString,
		log:       log.NewHelper(log.With(log.GetLogger(), "component", "store")),
		tasks:     []model.Task{},
		awards:    []model.UnlockedAward{},
		subs:      make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted blob. A missing,
// unreadable or malformed blob resets both collections to empty.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	s.load()
	s.reminders.Recompute(ctx, s.snapshotTasks())
	s.mu.Unlock()

	s.publish(Event{Kind: Loaded})
}

func (s *Store) load() {
	s.tasks = []model.Task{}
	s.awards = []model.UnlockedAward{}

	blob, ok, err := s.slot.Get(s.key)
	if err != nil {
		s.log.Errorf("cannot read %s, starting empty: %v", s.key, err)
		return
	}
	if !ok {
		s.log.Infof("no saved state under %s", s.key)
		return
	}

	state, err := codec.Decode(blob)
	if err != nil {
		s.log.Errorf("cannot decode %s, starting empty: %v", s.key, err)
		return
	}
	s.tasks = state.Tasks
	s.awards = state.UnlockedAwards
	s.log.Infof("loaded %d tasks and %d awards", len(s.tasks), len(s.awards))
}

// Save recomputes reminders and writes the current state to the slot.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	s.reminders.Recompute(ctx, s.snapshotTasks())

	blob := codec.Encode(codec.State{Tasks: s.tasks, UnlockedAwards: s.awards})
	if err := s.slot.Set(s.key, blob); err != nil {
		s.log.Errorf("cannot save %s: %v", s.key, err)
		return &PersistError{Key: s.key, Err: err}
	}
	return nil
}

// Add appends task, assigning an ID when it has none.
func (s *Store) Add(ctx context.Context, task model.Task) (model.Task, error) {
	s.mu.Lock()
	if task.ID == "" {
		task.ID = s.newID()
	}
	if s.indexOf(task.ID) >= 0 {
		s.mu.Unlock()
		return model.Task{}, fmt.Errorf("%w: %s", ErrDuplicateTask, task.ID)
	}
	task = task.Clone()
	s.tasks = append(s.tasks, task)
	err := s.save(ctx)
	s.mu.Unlock()

	s.publish(Event{Kind: TaskAdded, TaskID: task.ID})
	return task.Clone(), err
}

// Update replaces the first task with the same ID, keeping its position.
// A task that is not in the store is ignored.
func (s *Store) Update(ctx context.Context, task model.Task) error {
	s.mu.Lock()
	i := s.indexOf(task.ID)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.tasks[i] = task.Clone()
	err := s.save(ctx)
	s.mu.Unlock()

	s.publish(Event{Kind: TaskUpdated, TaskID: task.ID})
	return err
}

// Delete removes the first task with the same ID. A task that is not in the
// store is ignored.
func (s *Store) Delete(ctx context.Context, task model.Task) error {
	s.mu.Lock()
	i := s.indexOf(task.ID)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	err := s.save(ctx)
	s.mu.Unlock()

	s.publish(Event{Kind: TaskDeleted, TaskID: task.ID})
	return err
}

// UnlockAward records the first award of subject and reports whether a new
// record was added. Unlocking an award that is already recorded does nothing.
func (s *Store) UnlockAward(ctx context.Context, subject string) (bool, error) {
	sub, ok := s.catalog.LookupSubject(subject)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}
	if len(sub.Awards) == 0 {
		return false, fmt.Errorf("%w: %q", ErrNoAwardsDefined, subject)
	}
	awardID := sub.Awards[0].ImageName

	s.mu.Lock()
	for _, a := range s.awards {
		if a.AwardID == awardID {
			s.mu.Unlock()
			return false, nil
		}
	}
	s.awards = append(s.awards, model.UnlockedAward{
		AwardID:    awardID,
		UnlockedAt: model.Timestamp{Time: s.now()},
	})
	err := s.save(ctx)
	s.mu.Unlock()

	s.log.Infof("unlocked %s for %s", awardID, subject)
	s.publish(Event{Kind: AwardUnlocked, AwardID: awardID})
	return true, err
}

// Tasks returns a copy of the tasks in insertion order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotTasks()
}

// Task returns the task with the given ID.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// UnlockedAwards returns a copy of the unlocked awards.
func (s *Store) UnlockedAwards() []model.UnlockedAward {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.UnlockedAward, len(s.awards))
	copy(out, s.awards)
	return out
}

func (s *Store) snapshotTasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
