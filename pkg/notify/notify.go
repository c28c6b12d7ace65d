// Package notify defines the contract of the platform notification service
// that delivers reminder alerts.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// Alert is a timed notification.
type Alert struct {
	ID      string
	Title   string
	Body    string
	Trigger time.Time
	Repeats bool
}

// Notifier accepts and cancels timed alerts.
type Notifier interface {
	// ClearAll cancels every alert previously scheduled through this notifier.
	ClearAll(ctx context.Context) error

	// Schedule registers a new alert.
	Schedule(ctx context.Context, a Alert) error
}

// Recorder keeps pending alerts in memory.
type Recorder struct {
	mu      sync.Mutex
	pending []Alert
	clears  int

	// ScheduleErr, when set, is returned by every Schedule call and the alert
	// is not recorded.
	ScheduleErr error
	// ClearErr, when set, is returned by ClearAll and nothing is cleared.
	ClearErr error
}

func (r *Recorder) ClearAll(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ClearErr != nil {
		return r.ClearErr
	}
	r.pending = nil
	r.clears++
	return nil
}

func (r *Recorder) Schedule(_ context.Context, a Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ScheduleErr != nil {
		return r.ScheduleErr
	}
	r.pending = append(r.pending, a)
	return nil
}

// Pending returns a copy of the alerts scheduled since the last ClearAll.
func (r *Recorder) Pending() []Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Alert, len(r.pending))
	copy(out, r.pending)
	return out
}

// Clears returns how many times ClearAll succeeded.
func (r *Recorder) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}

// Log writes alerts to a logger instead of delivering them.
type Log struct {
	log *log.Helper
}

func NewLog(logger log.Logger) *Log {
	return &Log{log: log.NewHelper(log.With(logger, "component", "notify"))}
}

func (l *Log) ClearAll(context.Context) error {
	l.log.Debug("clearing pending reminders")
	return nil
}

func (l *Log) Schedule(_ context.Context, a Alert) error {
	l.log.Infow(
		"msg", "reminder scheduled",
		"id", a.ID,
		"title", a.Title,
		"body", a.Body,
		"trigger", a.Trigger.Format(time.DateTime),
	)
	return nil
}
