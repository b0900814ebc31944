package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"go.uber.org/zap"
)

type txKey struct{}

// TransactionManager opens transactions on the pool and threads them
// through the context
type TransactionManager struct {
	db     *DB
	logger *zap.Logger
}

// NewTransactionManager creates a transaction manager over db
func NewTransactionManager(db *DB, logger *zap.Logger) repositories.TransactionManager {
	return &TransactionManager{
		db:     db,
		logger: logger,
	}
}

// InTransaction implements repositories.TransactionManager
func (tm *TransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) (err error) {
	if outer, ok := txFromContext(ctx); ok {
		return fn(ctx, outer)
	}

	sqlTx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Transaction{tx: sqlTx, logger: tm.logger}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx), tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			tm.logger.Error("failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("cause", err))
		}
		return err
	}
	return tx.Commit()
}

// Transaction wraps *sql.Tx
type Transaction struct {
	tx     *sql.Tx
	logger *zap.Logger
}

func (t *Transaction) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback is a no-op on a finished transaction
func (t *Transaction) Rollback() error {
	err := t.tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return fmt.Errorf("failed to rollback transaction: %w", err)
}

func txFromContext(ctx context.Context) (*Transaction, bool) {
	tx, ok := ctx.Value(txKey{}).(*Transaction)
	return tx, ok
}

// InTx reports whether ctx carries an open transaction
func InTx(ctx context.Context) bool {
	_, ok := txFromContext(ctx)
	return ok
}

// Executor is satisfied by both *sql.DB and *sql.Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetExecutor returns the transaction carried by ctx, or the pool
func GetExecutor(ctx context.Context, db *DB) Executor {
	if tx, ok := txFromContext(ctx); ok {
		return tx.tx
	}
	return db.DB
}
