package benang

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sql.ErrNoRows

// recordPtr constrains a pointer to an entity struct that knows how to
// stamp its own id and timestamps.
type recordPtr[T any] interface {
	record
	*T
}

// collection is the generic table-level repository all six content kinds
// share. It knows nothing about error policy — it returns plain errors and
// leaves the read/write asymmetry to the Gateway wrappers.
type collection[T any, PT recordPtr[T]] struct {
	db         *sqlx.DB
	table      string
	selectCols string // "*" everywhere except users, which drops password_hash
	live       string // status value meaning publicly visible; "" = no status column
	orderLive  string
	orderAll   string
	insertSQL  string
	updatable  map[string]bool
	counters   map[string]bool
	updatedCol string // "" for kinds without an updated_at column
}

func (c *collection[T, PT]) listWhere(ctx context.Context, where, order string, args ...any) ([]T, error) {
	var b strings.Builder
	b.WriteString("SELECT " + c.selectCols + " FROM " + c.table)
	if where != "" {
		b.WriteString(" WHERE " + where)
	}
	if order != "" {
		b.WriteString(" ORDER BY " + order)
	}
	var items []T
	if err := c.db.SelectContext(ctx, &items, c.db.Rebind(b.String()), args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.table, err)
	}
	return items, nil
}

// listLive returns the publicly visible rows in the kind's display order.
// Kinds without a status column (gallery) return everything.
func (c *collection[T, PT]) listLive(ctx context.Context) ([]T, error) {
	if c.live == "" {
		return c.listWhere(ctx, "", c.orderLive)
	}
	return c.listWhere(ctx, "status = ?", c.orderLive, c.live)
}

func (c *collection[T, PT]) listAll(ctx context.Context) ([]T, error) {
	return c.listWhere(ctx, "", c.orderAll)
}

func (c *collection[T, PT]) get(ctx context.Context, id string) (*T, error) {
	var item T
	query := c.db.Rebind("SELECT " + c.selectCols + " FROM " + c.table + " WHERE id = ?")
	if err := c.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", c.table, err)
	}
	return &item, nil
}

// insert stamps the backend-generated fields (id, timestamps, defaults)
// and writes the row.
func (c *collection[T, PT]) insert(ctx context.Context, rec PT) error {
	rec.prepare(time.Now().UTC())
	if _, err := c.db.NamedExecContext(ctx, c.insertSQL, rec); err != nil {
		return fmt.Errorf("insert %s: %w", c.table, err)
	}
	return nil
}

// update applies a partial update keyed by column name. Columns outside the
// kind's whitelist are rejected before anything is sent to the backend. The
// update timestamp is stamped server-side here, never taken from the caller.
func (c *collection[T, PT]) update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("update %s: no fields", c.table)
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !c.updatable[col] {
			return nil, fmt.Errorf("update %s: column %q is not updatable", c.table, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+2)
	for _, col := range cols {
		sets = append(sets, col+" = ?")
		args = append(args, fields[col])
	}
	if c.updatedCol != "" {
		sets = append(sets, c.updatedCol+" = ?")
		args = append(args, time.Now().UTC())
	}
	args = append(args, id)

	query := c.db.Rebind("UPDATE " + c.table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", c.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update %s: rows affected: %w", c.table, err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return c.get(ctx, id)
}

// delete removes a row. It reports false without error when the id was
// already gone, so repeated deletes are harmless.
func (c *collection[T, PT]) delete(ctx context.Context, id string) (bool, error) {
	res, err := c.db.ExecContext(ctx, c.db.Rebind("DELETE FROM "+c.table+" WHERE id = ?"), id)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", c.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s: rows affected: %w", c.table, err)
	}
	return n > 0, nil
}

// setFeatured maintains the single-spotlight invariant: at most one row per
// table carries featured = true. Granting the spotlight is a single
// conditional UPDATE — the target gains the flag and whichever row held it
// loses it in the same statement, so concurrent grants cannot leave two
// winners. Revoking touches only the target row.
func (c *collection[T, PT]) setFeatured(ctx context.Context, id string, featured bool) (*T, error) {
	now := time.Now().UTC()
	var query string
	var args []any
	if featured {
		// The EXISTS guard keeps a grant against a missing id from stripping
		// the flag off the current holder.
		query = "UPDATE " + c.table + " SET featured = (id = ?), " +
			c.updatedCol + " = CASE WHEN id = ? THEN ? ELSE " + c.updatedCol + " END " +
			"WHERE (featured OR id = ?) AND EXISTS (SELECT 1 FROM " + c.table + " t WHERE t.id = ?)"
		args = []any{id, id, now, id, id}
	} else {
		query = "UPDATE " + c.table + " SET featured = ?, " + c.updatedCol + " = ? WHERE id = ?"
		args = []any{false, now, id}
	}
	res, err := c.db.ExecContext(ctx, c.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("set featured %s: %w", c.table, err)
	}
	if !featured {
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("set featured %s: rows affected: %w", c.table, err)
		}
		if n == 0 {
			return nil, ErrNotFound
		}
	}
	return c.get(ctx, id)
}

// increment bumps a counter column by one in a single statement, so
// concurrent bumps never lose updates.
func (c *collection[T, PT]) increment(ctx context.Context, id, col string) (*T, error) {
	if !c.counters[col] {
		return nil, fmt.Errorf("increment %s: column %q is not a counter", c.table, col)
	}
	query := c.db.Rebind("UPDATE " + c.table + " SET " + col + " = " + col + " + 1 WHERE id = ?")
	res, err := c.db.ExecContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("increment %s.%s: %w", c.table, col, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("increment %s.%s: rows affected: %w", c.table, col, err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return c.get(ctx, id)
}
