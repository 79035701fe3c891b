package models

import (
	"errors"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

var (
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrInvalidPriority = errors.New("priority must be 1 (Low), 2 (Medium) or 3 (High)")
	ErrInvalidStatus   = errors.New(`status must be "Pending", "In Progress" or "Completed"`)
)

// IsValidation reports whether err is a bad-input error, so handlers can map
// it to a 400 instead of a 500.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrInvalidPriority) ||
		errors.Is(err, ErrInvalidStatus)
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func ValidPriority(p int) bool {
	return p >= PriorityLow && p <= PriorityHigh
}

type Task struct {
	ID          int64      `db:"task_id" json:"task_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`
	Priority    int        `db:"priority" json:"priority"`
	Status      TaskStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
}

// TaskCreate carries the fields a caller may set at creation. Title is
// required; the rest fall back to documented defaults in the repository.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    int        `json:"priority"`
	Status      TaskStatus `json:"status"`
}

// TaskUpdate is a sparse mutation: a nil field means "not supplied" and the
// stored value is left untouched. An explicit JSON null decodes to nil too,
// so null and absent are the same thing.
type TaskUpdate struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	DueDate     *time.Time  `json:"due_date"`
	Priority    *int        `json:"priority"`
	Status      *TaskStatus `json:"status"`
	CompletedAt *time.Time  `json:"completed_at"`
}
