package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/repforge/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

// painBody reads a pain memory body through a read-only transaction.
func painBody(uow *db.SQLiteUnitOfWork, userID string) (string, bool) {
	var body string
	var found bool
	_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT body FROM pain_memory WHERE user_id = ?`, userID).Scan(&body); err != nil {
			return nil
		}
		found = true
		return nil
	})
	return body, found
}

func insertPain(ctx context.Context, tx db.DBTX, userID string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO pain_memory (user_id, body, updated_at) VALUES (?, '{}', '2026-01-01T00:00:00Z')`, userID)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertPain(ctx, tx, "u1")
	})
	require.NoError(t, err)

	body, found := painBody(uow, "u1")
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, "{}", body)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertPain(ctx, tx, "u2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := painBody(uow, "u2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertPain(ctx, tx, "u3")
			panic("boom")
		})
	})

	_, found := painBody(uow, "u3")
	assert.False(t, found, "row should not exist after panic rollback")
}

func TestWithinTx_ReturnsCallbackErrorUnwrapped(t *testing.T) {
	uow := openTestUoW(t)
	sentinel := errors.New("set already logged")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return sentinel
	})
	assert.Same(t, sentinel, err)
}

func TestWithinTx_CanceledContext(t *testing.T) {
	uow := openTestUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "starting unit of work")
	assert.False(t, called)
}
