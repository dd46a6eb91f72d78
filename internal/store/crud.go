package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// persistable is what the shared CRUD core needs from an entity
type persistable interface {
	ID() int64
	Exists() bool
	SetID(id int64)
	CreatedAt() *time.Time
	SetTimestamps(createdAt, updatedAt *time.Time)
}

// crud implements the operations every repository shares. E is the entity pointer
// type and R the row struct scanned by sqlx.
type crud[E persistable, R any] struct {
	db      *sqlx.DB
	name    string
	table   string
	alias   string
	columns string
	hydrate func(R) (E, error)
	extract func(E) map[string]interface{}
}

type identity struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (c *crud[E, R]) from() string {
	return c.table + " " + c.alias
}

func (c *crud[E, R]) findByID(ctx context.Context, id int64) (E, error) {
	ctx, done := observe(ctx, c.name+".FindByID")
	defer done()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s.id = $1", c.columns, c.from(), c.alias)
	return c.get(ctx, query, id)
}

func (c *crud[E, R]) findAll(ctx context.Context, limit *int, offset int) ([]E, error) {
	ctx, done := observe(ctx, c.name+".FindAll")
	defer done()

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s.id", c.columns, c.from(), c.alias)
	if limit == nil {
		return c.list(ctx, query)
	}
	return c.list(ctx, query+" LIMIT $1 OFFSET $2", *limit, offset)
}

func (c *crud[E, R]) count(ctx context.Context) (int, error) {
	ctx, done := observe(ctx, c.name+".Count")
	defer done()

	var n int
	err := c.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+c.table)
	return n, err
}

// save inserts entities without an id and fully replaces the row of the others
func (c *crud[E, R]) save(ctx context.Context, e E) (E, error) {
	ctx, done := observe(ctx, c.name+".Save")
	defer done()

	data := c.extract(e)
	columns := make([]string, 0, len(data))
	for col := range data {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	args := make([]interface{}, 0, len(columns)+1)
	for _, col := range columns {
		args = append(args, data[col])
	}

	if !e.Exists() {
		placeholders := make([]string, len(columns))
		for i := range columns {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id, created_at, updated_at",
			c.table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

		var ident identity
		if err := c.db.GetContext(ctx, &ident, query, args...); err != nil {
			return e, err
		}
		e.SetID(ident.ID)
		e.SetTimestamps(&ident.CreatedAt, &ident.UpdatedAt)
		return e, nil
	}

	assignments := make([]string, len(columns))
	for i, col := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s, updated_at = NOW() WHERE id = $%d RETURNING updated_at",
		c.table, strings.Join(assignments, ", "), len(columns)+1)
	args = append(args, e.ID())

	var updatedAt time.Time
	err := c.db.GetContext(ctx, &updatedAt, query, args...)
	if err == sql.ErrNoRows {
		return e, nil
	}
	if err != nil {
		return e, err
	}
	e.SetTimestamps(e.CreatedAt(), &updatedAt)
	return e, nil
}

// delete removes the row of a stored entity. Unsaved entities issue no statement.
func (c *crud[E, R]) delete(ctx context.Context, e E) (bool, error) {
	if !e.Exists() {
		return false, nil
	}

	ctx, done := observe(ctx, c.name+".Delete")
	defer done()

	res, err := c.db.ExecContext(ctx, "DELETE FROM "+c.table+" WHERE id = $1", e.ID())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// get returns the single hydrated row of query, or the zero entity when there is none
func (c *crud[E, R]) get(ctx context.Context, query string, args ...interface{}) (E, error) {
	var zero E
	var row R
	err := c.db.GetContext(ctx, &row, query, args...)
	if err == sql.ErrNoRows {
		return zero, nil
	}
	if err != nil {
		return zero, err
	}
	return c.hydrate(row)
}

func (c *crud[E, R]) list(ctx context.Context, query string, args ...interface{}) ([]E, error) {
	var rows []R
	if err := c.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return c.hydrateAll(rows)
}

func (c *crud[E, R]) hydrateAll(rows []R) ([]E, error) {
	out := make([]E, 0, len(rows))
	for _, row := range rows {
		e, err := c.hydrate(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// in expands a query holding one "IN (?)" over ids into a bound Postgres query
func in(db *sqlx.DB, query string, ids []int64) (string, []interface{}, error) {
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return "", nil, err
	}
	return db.Rebind(query), args, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func nullInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

// nullable turns a nil pointer into a NULL argument
func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
