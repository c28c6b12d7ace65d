// Package reminder derives same-day deadline alerts from the task list and
// hands them to a notify.Notifier.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/harrisonrobin/spacepod/pkg/model"
	"github.com/harrisonrobin/spacepod/pkg/notify"
)

const (
	Title = "Don't forget your task!"

	DefaultHour   = 15
	DefaultMinute = 30
)

// Body is the alert text for task.
func Body(task model.Task) string {
	return fmt.Sprintf("%s: %s is about to expire today!", task.Subject, task.Name)
}

type Scheduler struct {
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string
	loc      *time.Location
	hour     int
	minute   int
	log      *log.Helper
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Scheduler) { s.newID = newID }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.loc = loc }
}

// WithTimeOfDay sets the local trigger time. Out-of-range values are ignored.
func WithTimeOfDay(hour, minute int) Option {
	return func(s *Scheduler) {
		if hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
			s.hour, s.minute = hour, minute
		}
	}
}

func WithLogger(logger log.Logger) Option {
	return func(s *Scheduler) {
		s.log = log.NewHelper(log.With(logger, "component", "reminder"))
	}
}

func New(n notify.Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		notifier: n,
		now:      time.Now,
		newID:    uuid.NewString,
		loc:      time.Local,
		hour:     DefaultHour,
		minute:   DefaultMinute,
		log:      log.NewHelper(log.With(log.GetLogger(), "component", "reminder")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Alerts builds the alerts Recompute would submit for tasks at now.
func (s *Scheduler) Alerts(tasks []model.Task, now time.Time) []notify.Alert {
	var alerts []notify.Alert
	for _, t := range DueTodayTasks(tasks, now, s.loc) {
		alerts = append(alerts, notify.Alert{
			ID:      s.newID(),
			Title:   Title,
			Body:    Body(t),
			Trigger: TriggerAt(t.DueAt.Time, s.hour, s.minute, s.loc),
		})
	}
	return alerts
}

// Recompute replaces every registered alert with one per task due today.
// Notifier failures are logged and never returned.
func (s *Scheduler) Recompute(ctx context.Context, tasks []model.Task) {
	if err := s.notifier.ClearAll(ctx); err != nil {
		s.log.Warnf("cannot clear pending reminders: %v", err)
	}

	alerts := s.Alerts(tasks, s.now())
	for _, a := range alerts {
		if err := s.notifier.Schedule(ctx, a); err != nil {
			s.log.Warnf("cannot add reminder %s (%q): %v", a.ID, a.Body, err)
		}
	}
	s.log.Debugf("scheduled %d reminders for %d tasks", len(alerts), len(tasks))
}
