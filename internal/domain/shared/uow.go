package shared

import "context"

// UnitOfWork executes fn atomically. Repository calls made with the
// context passed to fn join the same transaction. If fn returns an
// error the transaction is rolled back.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopUnitOfWork runs fn without transactional guarantees. Useful in tests.
type NoopUnitOfWork struct{}

func (NoopUnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
