package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gcamargo/almoxarifado-api/internal/application/romaneio"
)

// Ensure TxRunner implements romaneio.TxRunner.
var _ romaneio.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL, entregando
// repositórios atados à transação.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia uma transação, executa fn com repos atados à tx e faz Commit ou Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos romaneio.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := romaneio.Repos{
		Romaneios:  NewRomaneioRepository(tx),
		Itens:      NewRomaneioItemRepository(tx),
		Movimentos: NewMovimentoEstoqueRepository(tx),
		Materiais:  NewMaterialRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
