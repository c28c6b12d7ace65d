package model

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts low, medium or high in any case.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority %q (want low, medium or high)", s)
}

// Task represents a unit of user work. ID is the only identity used for
// update and delete.
type Task struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Name        string     `json:"name"`
	Emoji       string     `json:"taskEmoji"`
	Priority    Priority   `json:"priority"`
	CompletedAt *Timestamp `json:"completed,omitempty"`
	DueAt       *Timestamp `json:"date,omitempty"`
}

// Completed reports whether the task has a completion timestamp.
func (t Task) Completed() bool {
	return t.CompletedAt != nil
}

// Clone returns a copy of t that shares no timestamps with it.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		t.CompletedAt = At(t.CompletedAt.Time)
	}
	if t.DueAt != nil {
		t.DueAt = At(t.DueAt.Time)
	}
	return t
}

// UnlockedAward records the first time an award was earned.
type UnlockedAward struct {
	AwardID    string    `json:"awardName"`
	UnlockedAt Timestamp `json:"date"`
}
