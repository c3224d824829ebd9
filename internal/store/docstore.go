package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// ProgressStore is a key-path document store. Paths are slash-separated;
// maps are addressable by any prefix of their leaf paths.
type ProgressStore interface {
	// Get returns the value at path and whether it exists.
	Get(ctx context.Context, path string) (any, bool, error)

	// Set replaces the whole value at path. A nil value deletes it.
	Set(ctx context.Context, path string, value any) error

	// Update shallow-merges fields into the map at path: each key is
	// replaced as a whole, keys not named are left alone.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Increment atomically adds delta to the integer at path and returns
	// the new value. A non-empty opKey makes the call idempotent: replaying
	// the same key returns the first result without adding again.
	Increment(ctx context.Context, path string, delta int64, opKey string) (int64, error)

	// OnChange registers fn to run after any committed write that touches
	// path or one of its descendants or ancestors.
	OnChange(path string, fn func(changed string)) (cancel func())
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type subscription struct {
	path string
	fn   func(string)
}

// DocumentStore implements ProgressStore on a single SQLite table with
// one row per leaf value.
type DocumentStore struct {
	db *sql.DB

	// mu serializes writers within the process; SQLite serializes
	// across processes.
	mu sync.Mutex

	subsMu  sync.Mutex
	subs    map[int]subscription
	nextSub int

	now func() time.Time
}

var _ ProgressStore = (*DocumentStore)(nil)

func newDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{
		db:   db,
		subs: make(map[int]subscription),
		now:  time.Now,
	}
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// subtree matches path itself and every descendant. Descendants of p sort
// in the half-open range [p+"/", p+"0") since '0' follows '/' in ASCII.
func subtree(p string) *entsql.Predicate {
	return entsql.Or(
		entsql.EQ("path", p),
		entsql.And(entsql.GTE("path", p+"/"), entsql.LT("path", p+"0")),
	)
}

func (d *DocumentStore) Get(ctx context.Context, path string) (any, bool, error) {
	p, err := cleanPath(path)
	if err != nil {
		return nil, false, err
	}
	rows, err := selectTree(ctx, d.db, p)
	if err != nil {
		return nil, false, &PersistenceError{Op: "get", Path: p, Err: err}
	}
	v, ok, err := unflatten(p, rows)
	if err != nil {
		return nil, false, &PersistenceError{Op: "get", Path: p, Err: err}
	}
	return v, ok, nil
}

func (d *DocumentStore) Set(ctx context.Context, path string, value any) error {
	p, err := cleanPath(path)
	if err != nil {
		return err
	}
	if p == "" {
		return fmt.Errorf("%w: cannot set the root", ErrInvalidPath)
	}
	leaves, err := encodeTree(p, value)
	if err != nil {
		return err
	}
	return d.write(ctx, "set", p, func(tx *sql.Tx) error {
		return replaceTree(ctx, tx, p, leaves, d.now())
	})
}

func (d *DocumentStore) Update(ctx context.Context, path string, fields map[string]any) error {
	p, err := cleanPath(path)
	if err != nil {
		return err
	}
	type child struct {
		path   string
		leaves []leaf
	}
	children := make([]child, 0, len(fields))
	for k, v := range fields {
		cp, err := cleanPath(Join(p, k))
		if err != nil {
			return err
		}
		if cp == p {
			return fmt.Errorf("%w: empty field name under %q", ErrInvalidPath, p)
		}
		leaves, err := encodeTree(cp, v)
		if err != nil {
			return err
		}
		children = append(children, child{path: cp, leaves: leaves})
	}
	if len(children) == 0 {
		return nil
	}
	return d.write(ctx, "update", p, func(tx *sql.Tx) error {
		now := d.now()
		for _, c := range children {
			if err := replaceTree(ctx, tx, c.path, c.leaves, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *DocumentStore) OnChange(path string, fn func(changed string)) (cancel func()) {
	p, _ := cleanPath(path)
	d.subsMu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = subscription{path: p, fn: fn}
	d.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.subsMu.Lock()
			delete(d.subs, id)
			d.subsMu.Unlock()
		})
	}
}

// write runs fn in a transaction, serialized with other writers, and
// notifies subscribers once the transaction has committed.
func (d *DocumentStore) write(ctx context.Context, op, p string, fn func(tx *sql.Tx) error) error {
	if err := d.inTx(ctx, fn); err != nil {
		return &PersistenceError{Op: op, Path: p, Err: err}
	}
	d.notify(p)
	return nil
}

func (d *DocumentStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (d *DocumentStore) notify(changed string) {
	d.subsMu.Lock()
	var fns []func(string)
	for _, s := range d.subs {
		if related(changed, s.path) {
			fns = append(fns, s.fn)
		}
	}
	d.subsMu.Unlock()

	for _, fn := range fns {
		fn(changed)
	}
}

func selectTree(ctx context.Context, q querier, p string) ([]leaf, error) {
	b := builder()
	sel := b.Select("path", "value").From(b.Table(documentsTable)).OrderBy("path")
	if p != "" {
		sel.Where(subtree(p))
	}
	query, args := sel.Query()

	rs, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []leaf
	for rs.Next() {
		var l leaf
		if err := rs.Scan(&l.path, &l.value); err != nil {
			return nil, err
		}
		if within(l.path, p) {
			out = append(out, l)
		}
	}
	return out, rs.Err()
}

// replaceTree deletes everything at and under p, drops any ancestor that
// was stored as a leaf, and writes the new leaves.
func replaceTree(ctx context.Context, tx querier, p string, leaves []leaf, now time.Time) error {
	b := builder()

	query, args := b.Delete(documentsTable).Where(subtree(p)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear %q: %w", p, err)
	}

	if err := dropAncestorLeaves(ctx, tx, p); err != nil {
		return err
	}

	if len(leaves) == 0 {
		return nil
	}
	ins := b.Insert(documentsTable).Columns("path", "value", "updated_at")
	for _, l := range leaves {
		ins.Values(l.path, l.value, now.UnixMilli())
	}
	query, args = ins.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert under %q: %w", p, err)
	}
	return nil
}

func dropAncestorLeaves(ctx context.Context, tx querier, p string) error {
	anc := ancestors(p)
	if len(anc) == 0 {
		return nil
	}
	vals := make([]any, len(anc))
	for i, a := range anc {
		vals[i] = a
	}
	query, args := builder().Delete(documentsTable).Where(entsql.In("path", vals...)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear ancestors of %q: %w", p, err)
	}
	return nil
}
