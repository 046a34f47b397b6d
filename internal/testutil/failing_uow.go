package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/repforge/internal/db"
)

// FailingWriteUoW runs the work in a real transaction but fails the Nth write
// whose statement touches Table. Reads always pass through. An empty Table
// matches every write.
type FailingWriteUoW struct {
	DB    *sql.DB
	Table string
	Nth   int
	Err   error
}

func (u *FailingWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting unit of work: %w", err)
	}
	nth := u.Nth
	if nth <= 0 {
		nth = 1
	}
	w := &failingWrites{DBTX: tx, table: u.Table, nth: nth, err: u.Err}
	if err := fn(ctx, w); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type failingWrites struct {
	db.DBTX
	table string
	nth   int
	seen  int
	err   error
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.table == "" || strings.Contains(query, " "+f.table+" ") {
		f.seen++
		if f.seen == f.nth {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
