package ports

import "context"

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoTx runs fn directly, for stores without transactions.
type NoTx struct{}

func (NoTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
