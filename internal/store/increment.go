package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	entsql "entgo.io/ent/dialect/sql"
)

// The counter update and its ledger row commit together. Raw SQL is used
// because the dialect builders cannot express arithmetic on the conflict
// target with RETURNING.
const incrementSQL = `INSERT INTO ` + documentsTable + ` (path, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
	value = CAST(CAST(` + documentsTable + `.value AS INTEGER) + CAST(excluded.value AS INTEGER) AS TEXT),
	updated_at = excluded.updated_at
RETURNING CAST(value AS INTEGER)`

// Increment implements ProgressStore.
func (d *DocumentStore) Increment(ctx context.Context, path string, delta int64, opKey string) (int64, error) {
	p, err := cleanPath(path)
	if err != nil {
		return 0, err
	}
	if p == "" {
		return 0, fmt.Errorf("%w: cannot increment the root", ErrInvalidPath)
	}

	var result int64
	replayed := false
	err = d.inTx(ctx, func(tx *sql.Tx) error {
		if opKey != "" {
			prev, found, err := appliedResult(ctx, tx, opKey, p)
			if err != nil {
				return err
			}
			if found {
				result, replayed = prev, true
				return nil
			}
		}

		// A map or ancestor leaf at p would make the counter ambiguous.
		if err := clearForCounter(ctx, tx, p); err != nil {
			return err
		}

		now := d.now().UnixMilli()
		if err := tx.QueryRowContext(ctx, incrementSQL, p, strconv.FormatInt(delta, 10), now).Scan(&result); err != nil {
			return fmt.Errorf("increment: %w", err)
		}

		if opKey != "" {
			q, args := builder().Insert(appliedOpsTable).
				Columns("op_key", "path", "result", "applied_at").
				Values(opKey, p, result, now).
				Query()
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("record op %q: %w", opKey, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, &PersistenceError{Op: "increment", Path: p, Err: err}
	}
	if !replayed {
		d.notify(p)
	}
	return result, nil
}

// appliedResult looks up an earlier increment of p under opKey. The same
// key on another path is a different operation.
func appliedResult(ctx context.Context, q querier, opKey, p string) (int64, bool, error) {
	b := builder()
	query, args := b.Select("result").
		From(b.Table(appliedOpsTable)).
		Where(entsql.And(entsql.EQ("op_key", opKey), entsql.EQ("path", p))).
		Query()

	var result int64
	err := q.QueryRowContext(ctx, query, args...).Scan(&result)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup op %q: %w", opKey, err)
	}
	return result, true, nil
}

// clearForCounter removes descendants of p and leaf ancestors so that p
// can hold a single integer leaf. An existing leaf at p is kept.
func clearForCounter(ctx context.Context, tx querier, p string) error {
	query, args := builder().Delete(documentsTable).
		Where(entsql.And(entsql.GTE("path", p+"/"), entsql.LT("path", p+"0"))).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear under %q: %w", p, err)
	}
	return dropAncestorLeaves(ctx, tx, p)
}
