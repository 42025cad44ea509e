package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("task not found")

// Store is the persistence boundary for tasks. Every method is scoped to
// the owning user; a task id from another user behaves as not found.
type Store interface {
	List(ctx context.Context, userID int64, f ListFilter) ([]Task, int, error)
	Get(ctx context.Context, userID int64, id string) (Task, error)
	Create(ctx context.Context, userID int64, t Task) (Task, error)
	Update(ctx context.Context, userID int64, id string, u Update) (Task, error)
	Delete(ctx context.Context, userID int64, id string) error
	All(ctx context.Context, userID int64) ([]Task, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const taskColumns = "id, title, COALESCE(description,''), due_date, priority, importance, completed, status, created_at"

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	var due sql.NullTime
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &due,
		&t.Priority, &t.Importance, &t.Completed, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		return Task{}, err
	}
	if due.Valid {
		t.DueDate = due.Time.Format(DateLayout)
	}
	return t, nil
}

func (s *PostgresStore) List(ctx context.Context, userID int64, f ListFilter) ([]Task, int, error) {
	where := "WHERE user_id = $1"
	args := []any{userID}
	n := 2

	if f.Priority != "" {
		where += fmt.Sprintf(" AND priority = $%d", n)
		args = append(args, f.Priority)
		n++
	}
	if f.Importance != "" {
		where += fmt.Sprintf(" AND importance = $%d", n)
		args = append(args, f.Importance)
		n++
	}
	if f.DueBefore != "" {
		where += fmt.Sprintf(" AND due_date IS NOT NULL AND due_date <= $%d", n)
		args = append(args, f.DueBefore)
		n++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	order := "DESC"
	if f.SortOrder == "asc" {
		order = "ASC"
	}
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM tasks %s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d",
		taskColumns, where, col, order, n, n+1,
	)
	args = append(args, f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var result []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID int64, id string) (Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 AND id = $2",
		userID, id,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) Create(ctx context.Context, userID int64, t Task) (Task, error) {
	t.ID = uuid.NewString()

	var due any
	if t.DueDate != "" {
		due = t.DueDate
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, due_date, priority, importance, completed, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, t.ID, userID, t.Title, t.Description, due, t.Priority, t.Importance, t.Completed, t.Status).Scan(&t.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Update(ctx context.Context, userID int64, id string, u Update) (Task, error) {
	// fetch, apply in memory (invariant lives in Update.Apply), write back
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return Task{}, err
	}
	u.Apply(&t)

	var due any
	if t.DueDate != "" {
		due = t.DueDate
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title=$1, description=$2, due_date=$3, priority=$4, importance=$5, completed=$6, status=$7
		WHERE id=$8 AND user_id=$9
	`, t.Title, t.Description, due, t.Priority, t.Importance, t.Completed, t.Status, id, userID)
	if err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID int64, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every task of the user, newest first. Used by the analysis
// operation, which aggregates over the full collection.
func (s *PostgresStore) All(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id ASC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var result []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

var _ Store = (*PostgresStore)(nil)
