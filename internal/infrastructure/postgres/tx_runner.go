package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Fallas de serialización y deadlocks se traducen a ErrConflictRetryable para que
// el caller sepa que puede reintentar la operación completa.
func (r *TxRunner) Run(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	eventRepo repository.InventoryEventRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	recordRepo := NewInventoryRecordRepository(tx)
	eventRepo := NewInventoryEventRepository(tx)

	if err := fn(recordRepo, eventRepo); err != nil {
		if isRetryableConflict(err) {
			return domain.ErrConflictRetryable
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isRetryableConflict(err) {
			return domain.ErrConflictRetryable
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
