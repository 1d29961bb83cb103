package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
)

// TaskStore defines CRUD over an event's checklist items.
type TaskStore interface {
	Add(ctx context.Context, eventID int64, req *models.TaskRequest) (int64, error)
	ListForEvent(ctx context.Context, eventID int64) ([]*models.Task, error)
	SetCompleted(ctx context.Context, taskID int64, completed bool) error
	Update(ctx context.Context, taskID int64, req *models.TaskRequest) error
	Delete(ctx context.Context, taskID int64) error
}

type taskStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTaskStore creates a new task store
func NewTaskStore(db *sql.DB, log zerolog.Logger) TaskStore {
	return &taskStore{
		db:  db,
		log: log,
	}
}

// Add inserts a task under an existing event. A dangling event id trips the
// foreign key and comes back as ErrNotFound.
func (s *taskStore) Add(ctx context.Context, eventID int64, req *models.TaskRequest) (int64, error) {
	if err := validateRequest(req); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (event_id, description) VALUES (?, ?)`,
		eventID, req.Description,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrNotFound
		}
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to create task")
		return 0, err
	}

	return res.LastInsertId()
}

// ListForEvent returns an event's tasks in insertion order.
func (s *taskStore) ListForEvent(ctx context.Context, eventID int64) ([]*models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, description, is_completed
		 FROM tasks
		 WHERE event_id = ?
		 ORDER BY id`, eventID)
	if err != nil {
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("Failed to list tasks")
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.EventID, &t.Description, &t.IsCompleted); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

// SetCompleted flips a task's completion flag.
func (s *taskStore) SetCompleted(ctx context.Context, taskID int64, completed bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET is_completed = ? WHERE id = ?`, completed, taskID)
	if err != nil {
		s.log.Error().Err(err).Int64("task_id", taskID).Msg("Failed to update task status")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Update rewrites a task's description in place, keeping its id stable.
func (s *taskStore) Update(ctx context.Context, taskID int64, req *models.TaskRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET description = ? WHERE id = ?`, req.Description, taskID)
	if err != nil {
		s.log.Error().Err(err).Int64("task_id", taskID).Msg("Failed to update task")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task
func (s *taskStore) Delete(ctx context.Context, taskID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, taskID)
	if err != nil {
		s.log.Error().Err(err).Int64("task_id", taskID).Msg("Failed to delete task")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
