package database

import "context"

type txContextKey struct{}

// txScope tracks the open transaction and whether the current unit of
// work opened it. Nested units join the outer scope and leave commit
// and rollback to the opener.
type txScope struct {
	tx    Transaction
	owner bool
}

func beginScope(ctx context.Context, tx Transaction, owner bool) context.Context {
	return context.WithValue(ctx, txContextKey{}, txScope{tx: tx, owner: owner})
}

func currentScope(ctx context.Context) (txScope, bool) {
	scope, ok := ctx.Value(txContextKey{}).(txScope)
	if !ok || scope.tx == nil {
		return txScope{}, false
	}
	return scope, true
}

// ExecutorFromContext returns the open transaction when the context is
// inside a unit of work, falling back to the plain connection. This is
// how repositories join a surrounding transaction without knowing
// about it.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if scope, ok := currentScope(ctx); ok {
		return scope.tx
	}
	return conn
}
