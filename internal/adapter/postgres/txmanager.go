package postgres

import (
	"context"
	"errors"
	"fmt"
)

// TxManager runs callbacks inside a transaction carried by the context.
// A RunInTx nested in another joins the outer transaction: only the
// outermost call commits or rolls back.
type TxManager struct {
	pool Pool
}

func NewTxManager(pool Pool) *TxManager {
	return &TxManager{pool: pool}
}

// RunInTx calls fn with a context holding the transaction. An error or panic
// from fn rolls the transaction back; the panic is re-raised afterwards.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTx(ctx) {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// Rollback runs on a context that outlives cancellation of ctx.
		rbErr := tx.Rollback(context.WithoutCancel(ctx))
		if p := recover(); p != nil {
			panic(p)
		}
		if rbErr != nil && err != nil {
			err = errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
	}()

	if err = fn(contextWithTx(ctx, tx)); err != nil {
		return err
	}

	committed = true
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
