package entities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/common"
	"github.com/dmitrijs2005/gatherly/internal/dbx"
)

type scanner interface {
	Scan(dest ...any) error
}

// table describes how one entity type maps onto its SQLite table.
type table[T any] struct {
	name    string
	columns []string
	// parent is the column ListByParent filters on.
	parent string
	// order is the ORDER BY clause of ListByParent; ListAll uses insertion
	// order.
	order string
	args  func(*T) []any
	scan  func(scanner) (*T, error)
}

func (t table[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func (t table[T]) upsertSQL() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	sets := make([]string, 0, len(t.columns)-1)
	for _, c := range t.columns[1:] {
		sets = append(sets, c+" = excluded."+c)
	}
	return "INSERT INTO " + t.name + " (" + strings.Join(t.columns, ", ") + ") VALUES (" + placeholders + ")" +
		" ON CONFLICT(id) DO UPDATE SET " + strings.Join(sets, ", ")
}

// SQLiteRepository implements ChildRepository on a DBTX, so the same code
// runs on *sql.DB and inside a transaction.
type SQLiteRepository[T any] struct {
	db dbx.DBTX
	t  table[T]
}

func newRepository[T any](db dbx.DBTX, t table[T]) *SQLiteRepository[T] {
	return &SQLiteRepository[T]{db: db, t: t}
}

func (r *SQLiteRepository[T]) query(ctx context.Context, q string, args ...any) ([]*T, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", r.t.name, err)
	}
	defer rows.Close()

	var result []*T
	for rows.Next() {
		v, err := r.t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.t.name, err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", r.t.name, err)
	}
	return result, nil
}

func (r *SQLiteRepository[T]) ListAll(ctx context.Context) ([]*T, error) {
	return r.query(ctx, r.t.selectSQL()+" ORDER BY rowid")
}

func (r *SQLiteRepository[T]) ListByParent(ctx context.Context, parentID string) ([]*T, error) {
	if r.t.parent == "" {
		return nil, fmt.Errorf("%s has no parent column", r.t.name)
	}
	return r.query(ctx, r.t.selectSQL()+" WHERE "+r.t.parent+" = ? ORDER BY "+r.t.order, parentID)
}

func (r *SQLiteRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	row := r.db.QueryRowContext(ctx, r.t.selectSQL()+" WHERE id = ?", id)
	v, err := r.t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", r.t.name, id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", r.t.name, id, err)
	}
	return v, nil
}

func (r *SQLiteRepository[T]) Upsert(ctx context.Context, v *T) error {
	if _, err := r.db.ExecContext(ctx, r.t.upsertSQL(), r.t.args(v)...); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", r.t.name, err)
	}
	return nil
}

// DeleteByID is idempotent: deleting a missing id is not an error.
func (r *SQLiteRepository[T]) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM "+r.t.name+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.t.name, id, err)
	}
	return nil
}

// Timestamps are stored as RFC 3339 text.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func parseOptTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
