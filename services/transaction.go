package services

import (
	"context"

	"github.com/ShadyM97/LearnHub-Backend/repositories"
)

// WithTransaction runs fn inside a database transaction. Repositories called
// with the ctx handed to fn join the transaction. Commits when fn returns nil,
// rolls back otherwise.
func WithTransaction(ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context) error) error {
	return txMgr.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		return fn(txCtx)
	})
}

// WithTransactionResult executes a function within a database transaction and returns a result.
// The zero value is returned when the transaction is rolled back.
func WithTransactionResult[T any](ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := txMgr.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		var err error
		result, err = fn(txCtx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
