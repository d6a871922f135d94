package repositories

import "context"

// TxFn is the body of a transaction. Repository calls must use the ctx it
// receives so their writes join the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager groups repository writes into one atomic commit.
// A TxFn that returns an error leaves storage as it was.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
