package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary spanning both repositories. Order and
// partner changes of one transition commit or roll back together.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// OrderRepository and UserRepository are bound to the transaction started by Begin.
	OrderRepository() OrderRepository
	UserRepository() UserRepository
}
