package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"todoapp/internal/models"
)

// defines methods for task db operations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, in models.TaskCreate) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
	Update(ctx context.Context, id int64, upd models.TaskUpdate) error
	Delete(ctx context.Context, id int64) error
}

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, in models.TaskCreate) (int64, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return 0, models.ErrEmptyTitle
	}
	if in.Priority == 0 {
		in.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(in.Priority) {
		return 0, models.ErrInvalidPriority
	}
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	if !in.Status.Valid() {
		return 0, models.ErrInvalidStatus
	}

	query := r.db.Rebind(`INSERT INTO tasks (title, description, due_date, priority, status, created_at)
	 VALUES (?, ?, ?, ?, ?, ?) RETURNING task_id`)

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		in.Title, in.Description, in.DueDate, in.Priority, in.Status, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	return id, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := r.db.Rebind(`SELECT task_id, title, description, due_date, priority, status, created_at, completed_at
	 FROM tasks WHERE task_id = ?`)

	task := &models.Task{}
	err := r.db.GetContext(ctx, task, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]*models.Task, error) {
	// task_id breaks ties when two tasks share a created_at timestamp
	query := `SELECT task_id, title, description, due_date, priority, status, created_at, completed_at
	 FROM tasks ORDER BY created_at DESC, task_id DESC`

	tasks := []*models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a sparse mutation: the SET clause is built from a fixed
// enumeration of the mutable columns, appending a column only when the caller
// supplied it. Columns never supplied stay untouched, so concurrent partial
// edits to different fields cannot clobber each other. created_at is not in
// the enumeration and therefore immutable. Updating an absent id affects zero
// rows and still returns nil; callers re-fetch the row to tell.
func (r *TaskRepository) Update(ctx context.Context, id int64, upd models.TaskUpdate) error {
	set := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return models.ErrEmptyTitle
		}
		set = append(set, "title = ?")
		args = append(args, title)
	}
	if upd.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.DueDate != nil {
		set = append(set, "due_date = ?")
		args = append(args, *upd.DueDate)
	}
	if upd.Priority != nil {
		if !models.ValidPriority(*upd.Priority) {
			return models.ErrInvalidPriority
		}
		set = append(set, "priority = ?")
		args = append(args, *upd.Priority)
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return models.ErrInvalidStatus
		}
		set = append(set, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.CompletedAt != nil {
		set = append(set, "completed_at = ?")
		args = append(args, *upd.CompletedAt)
	}

	if len(set) == 0 {
		return ErrNoFields
	}

	args = append(args, id)
	query := r.db.Rebind("UPDATE tasks SET " + strings.Join(set, ", ") + " WHERE task_id = ?")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	return nil
}

// Delete is idempotent: deleting an id that does not exist is not an error.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM tasks WHERE task_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}
