package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jrchoo/ip/internal/model"
)

// Store keeps the task list in SQLite, one row per task keyed by position.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) Load(ctx context.Context) ([]model.Task, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT kind, done, description, by_text, from_text, to_text
		FROM tasks
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var (
			kind string
			done int64
			task model.Task
		)
		if err := rows.Scan(&kind, &done, &task.Description, &task.By, &task.From, &task.To); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.Kind = model.Kind(kind)
		task.Done = done != 0
		if err := validateTask(task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	return tasks, nil
}

// Save rewrites the whole table inside one transaction.
func (s *Store) Save(ctx context.Context, tasks []model.Task) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (position, kind, done, description, by_text, from_text, to_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, task := range tasks {
		done := 0
		if task.Done {
			done = 1
		}
		if _, err := stmt.ExecContext(ctx, i+1, string(task.Kind), done, task.Description, task.By, task.From, task.To); err != nil {
			return fmt.Errorf("insert task %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func validateTask(task model.Task) error {
	switch task.Kind {
	case model.KindTodo, model.KindDeadline, model.KindEvent:
	default:
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}
	if task.Description == "" {
		return fmt.Errorf("task has %w", model.ErrBlankDescription)
	}
	return nil
}
