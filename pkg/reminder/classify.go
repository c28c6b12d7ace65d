package reminder

import (
	"time"

	"github.com/harrisonrobin/spacepod/pkg/model"
)

// State is the derived reminder status of a task. It is never persisted.
type State int

const (
	Completed State = iota
	NoDeadline
	DueToday
	NotDueToday
	Overdue
)

func (s State) String() string {
	switch s {
	case Completed:
		return "completed"
	case NoDeadline:
		return "no deadline"
	case DueToday:
		return "due today"
	case NotDueToday:
		return "not due today"
	case Overdue:
		return "overdue"
	}
	return "unknown"
}

// Classify places task relative to now in loc. A task due earlier today is
// DueToday, not Overdue; only past calendar days are Overdue.
func Classify(task model.Task, now time.Time, loc *time.Location) State {
	if task.Completed() {
		return Completed
	}
	if task.DueAt == nil {
		return NoDeadline
	}
	due := task.DueAt.In(loc)
	today := now.In(loc)
	switch {
	case sameDay(due, today):
		return DueToday
	case due.Before(today):
		return Overdue
	default:
		return NotDueToday
	}
}

// DueTodayTasks returns the pending tasks whose due date falls on now's
// calendar day in loc, in input order.
func DueTodayTasks(tasks []model.Task, now time.Time, loc *time.Location) []model.Task {
	var due []model.Task
	for _, t := range tasks {
		if Classify(t, now, loc) == DueToday {
			due = append(due, t)
		}
	}
	return due
}

// TriggerAt anchors hour:minute to due's calendar day in loc.
func TriggerAt(due time.Time, hour, minute int, loc *time.Location) time.Time {
	y, m, d := due.In(loc).Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
