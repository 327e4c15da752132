package database

import (
	"context"
	"errors"
)

// GenericUnitOfWork implements application.UnitOfWork on any registered
// driver by carrying the transaction scope in the context.
type GenericUnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a unit of work over the given connection.
func NewUnitOfWork(conn Connection) *GenericUnitOfWork {
	return &GenericUnitOfWork{conn: conn}
}

// Begin opens a transaction scope. A context already inside one joins
// it as a non-owner instead of opening a second transaction.
func (u *GenericUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if scope, ok := currentScope(ctx); ok {
		return beginScope(ctx, scope.tx, false), nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	return beginScope(ctx, tx, true), nil
}

// Commit commits when this unit opened the transaction; joined scopes
// defer to the opener.
func (u *GenericUnitOfWork) Commit(ctx context.Context) error {
	scope, ok := currentScope(ctx)
	if !ok {
		return errors.New("no transaction in context")
	}
	if !scope.owner {
		return nil
	}
	return scope.tx.Commit(ctx)
}

// Rollback rolls back when this unit opened the transaction.
func (u *GenericUnitOfWork) Rollback(ctx context.Context) error {
	scope, ok := currentScope(ctx)
	if !ok {
		return errors.New("no transaction in context")
	}
	if !scope.owner {
		return nil
	}
	return scope.tx.Rollback(ctx)
}
