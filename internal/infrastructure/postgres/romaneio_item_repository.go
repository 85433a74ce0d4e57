package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

var _ repository.RomaneioItemRepository = (*RomaneioItemRepo)(nil)

// RomaneioItemRepo implementação de RomaneioItemRepository sobre PostgreSQL.
type RomaneioItemRepo struct {
	q Querier
}

// NewRomaneioItemRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewRomaneioItemRepository(q Querier) *RomaneioItemRepo {
	return &RomaneioItemRepo{q: q}
}

const itemCols = `id, romaneio_id, material_id, quantidade, valor_unitario, valor_total,
		patrimonio, observacoes, item_origem_id, devolvido_em, criado_em`

// Create persiste uma linha de romaneio.
func (r *RomaneioItemRepo) Create(item *entity.RomaneioItem) error {
	query := `
		INSERT INTO romaneio_itens (` + itemCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.RomaneioID, item.MaterialID, item.Quantidade,
		item.ValorUnitario, item.ValorTotal, item.Patrimonio, item.Observacoes,
		item.ItemOrigemID, item.DevolvidoEm, item.CriadoEm)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtém uma linha por ID. Devolve nil quando não existe.
func (r *RomaneioItemRepo) GetByID(id string) (*entity.RomaneioItem, error) {
	query := `SELECT ` + itemCols + ` FROM romaneio_itens WHERE id = $1`
	var i entity.RomaneioItem
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&i.ID, &i.RomaneioID, &i.MaterialID, &i.Quantidade, &i.ValorUnitario,
		&i.ValorTotal, &i.Patrimonio, &i.Observacoes, &i.ItemOrigemID,
		&i.DevolvidoEm, &i.CriadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &i, nil
}

// ListByRomaneio lista as linhas de um romaneio na ordem de criação.
func (r *RomaneioItemRepo) ListByRomaneio(romaneioID string) ([]*entity.RomaneioItem, error) {
	query := `SELECT ` + itemCols + ` FROM romaneio_itens WHERE romaneio_id = $1 ORDER BY criado_em, id`
	rows, err := r.q.Query(context.Background(), query, romaneioID)
	if err != nil {
		return nil, fmt.Errorf("list itens: %w", err)
	}
	defer rows.Close()
	var list []*entity.RomaneioItem
	for rows.Next() {
		var i entity.RomaneioItem
		if err := rows.Scan(&i.ID, &i.RomaneioID, &i.MaterialID, &i.Quantidade,
			&i.ValorUnitario, &i.ValorTotal, &i.Patrimonio, &i.Observacoes,
			&i.ItemOrigemID, &i.DevolvidoEm, &i.CriadoEm); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// MarcarDevolvido grava o carimbo de devolução apenas se ainda nulo. Devolve
// false quando a linha já estava devolvida (chamada idempotente).
func (r *RomaneioItemRepo) MarcarDevolvido(id string, em time.Time) (bool, error) {
	query := `UPDATE romaneio_itens SET devolvido_em = $2 WHERE id = $1 AND devolvido_em IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id, em)
	if err != nil {
		return false, fmt.Errorf("marcar devolvido: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// LimparDevolucao volta o carimbo de devolução da linha a nulo.
func (r *RomaneioItemRepo) LimparDevolucao(id string) error {
	query := `UPDATE romaneio_itens SET devolvido_em = NULL WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("limpar devolução: %w", err)
	}
	return nil
}

// DeleteByRomaneio remove todas as linhas do romaneio.
func (r *RomaneioItemRepo) DeleteByRomaneio(romaneioID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM romaneio_itens WHERE romaneio_id = $1`, romaneioID)
	if err != nil {
		return fmt.Errorf("delete itens: %w", err)
	}
	return nil
}
