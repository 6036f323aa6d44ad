package tasks

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("task not found")

type Priority string

const (
	PriorityHot  Priority = "hot"
	PriorityWarm Priority = "warm"
	PriorityCold Priority = "cold"
)

var Priorities = []Priority{PriorityHot, PriorityWarm, PriorityCold}

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Task is an action item, optionally tied to an event or meeting.
type Task struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Priority   Priority   `json:"priority"`
	Status     Status     `json:"status"`
	AssigneeID *int64     `json:"assigneeId"`
	EventID    *int64     `json:"eventId"`
	MeetingID  *int64     `json:"meetingId"`
	DueDate    *time.Time `json:"dueDate"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	EventID   int64
	MeetingID int64
	Status    Status
}

func (f Filter) Matches(t Task) bool {
	if f.EventID != 0 && (t.EventID == nil || *t.EventID != f.EventID) {
		return false
	}
	if f.MeetingID != 0 && (t.MeetingID == nil || *t.MeetingID != f.MeetingID) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

type CreateParams struct {
	Title      string
	Priority   Priority
	Status     Status
	AssigneeID *int64
	EventID    *int64
	MeetingID  *int64
	DueDate    *time.Time
}

// UpdateParams is a partial update. A zero id clears a reference and a zero
// DueDate clears the due date.
type UpdateParams struct {
	Title      *string
	Priority   *Priority
	Status     *Status
	AssigneeID *int64
	EventID    *int64
	MeetingID  *int64
	DueDate    *time.Time
}

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Task, error)
	Get(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id int64) error
}
