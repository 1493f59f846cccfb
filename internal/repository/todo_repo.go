package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"todo_api/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const todoColumns = `id, title, description, completed, created_at, updated_at`

// pgCheckViolation is the SQLSTATE of a failed CHECK constraint
const pgCheckViolation = "23514"

type TodoRepository struct {
	db *pgxpool.Pool
}

func NewTodoRepository(db *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{db: db}
}

// List returns the todos matching f, most recently created first
func (r *TodoRepository) List(ctx context.Context, f domain.TodoFilter) ([]*domain.Todo, error) {
	cond, args := filterWhere(f).Build(0)
	rows, err := r.db.Query(ctx,
		`SELECT `+todoColumns+`
		 FROM todos
		 WHERE `+cond+`
		 ORDER BY created_at DESC, id DESC`,
		args...,
	)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	res := make([]*domain.Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, storageErr("list", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	return res, nil
}

// GetByID returns domain.ErrNotFound when no todo has that id
func (r *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error) {
	row := r.db.QueryRow(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id)
	t, err := scanTodo(row)
	if err != nil {
		return nil, storageErr("get", err)
	}
	return t, nil
}

// Create inserts t as-is; id and timestamps are assigned by the caller
func (r *TodoRepository) Create(ctx context.Context, t *domain.Todo) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO todos (`+todoColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+todoColumns,
		t.ID, t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt,
	)
	stored, err := scanTodo(row)
	if err != nil {
		return storageErr("create", err)
	}
	*t = *stored
	return nil
}

// Update writes only the fields present in p and always advances updated_at
func (r *TodoRepository) Update(ctx context.Context, id uuid.UUID, p domain.TodoPatch) (*domain.Todo, error) {
	sets, args := patchSet(p)
	args = append(args, id)

	row := r.db.QueryRow(ctx,
		`UPDATE todos SET `+sets+`
		 WHERE id = $`+strconv.Itoa(len(args))+`
		 RETURNING `+todoColumns,
		args...,
	)
	t, err := scanTodo(row)
	if err != nil {
		return nil, storageErr("update", err)
	}
	return t, nil
}

// Delete removes the todo permanently
func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// patchSet renders the SET list of an update; updated_at strictly increases
// even if the clock supplied the same instant twice.
func patchSet(p domain.TodoPatch) (string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Completed != nil {
		add("completed", *p.Completed)
	}
	args = append(args, p.UpdatedAt)
	sets = append(sets, "updated_at = GREATEST($"+strconv.Itoa(len(args))+", updated_at + INTERVAL '1 microsecond')")

	return strings.Join(sets, ", "), args
}

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var t domain.Todo
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// storageErr translates driver errors into domain errors
func storageErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
		return &domain.ValidationError{Message: "violates constraint " + pgErr.ConstraintName}
	}
	return &domain.StorageError{Op: op, Err: err}
}
