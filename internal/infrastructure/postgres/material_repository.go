package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementação de MaterialRepository sobre PostgreSQL (usável com pool ou tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialCols = `id, codigo, descricao, unidade, quantidade, centro_custo_id, criado_em, atualizado_em`

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(&m.ID, &m.Codigo, &m.Descricao, &m.Unidade, &m.Quantidade,
		&m.CentroCustoID, &m.CriadoEm, &m.AtualizadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan material: %w", err)
	}
	return &m, nil
}

// Create persiste um material do catálogo.
func (r *MaterialRepo) Create(m *entity.Material) error {
	query := `
		INSERT INTO materiais (` + materialCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Codigo, m.Descricao, m.Unidade, m.Quantidade, m.CentroCustoID,
		m.CriadoEm, m.AtualizadoEm)
	if err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// GetByID obtém um material por ID. Devolve nil quando não existe.
func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	query := `SELECT ` + materialCols + ` FROM materiais WHERE id = $1`
	return scanMaterial(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtém o material bloqueando a linha (SELECT FOR UPDATE).
func (r *MaterialRepo) GetForUpdate(id string) (*entity.Material, error) {
	query := `SELECT ` + materialCols + ` FROM materiais WHERE id = $1 FOR UPDATE`
	return scanMaterial(r.q.QueryRow(context.Background(), query, id))
}

// UpdateSaldo grava o novo saldo do material.
func (r *MaterialRepo) UpdateSaldo(id string, quantidade decimal.Decimal, em time.Time) error {
	query := `UPDATE materiais SET quantidade = $2, atualizado_em = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, quantidade, em)
	if err != nil {
		return fmt.Errorf("update saldo: %w", err)
	}
	return nil
}

// UpdateCentroCusto grava o novo centro de custo dono do material.
func (r *MaterialRepo) UpdateCentroCusto(id, centroCustoID string, em time.Time) error {
	query := `UPDATE materiais SET centro_custo_id = $2, atualizado_em = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, centroCustoID, em)
	if err != nil {
		return fmt.Errorf("update centro de custo: %w", err)
	}
	return nil
}

// List lista materiais paginados por código.
func (r *MaterialRepo) List(limit, offset int) ([]*entity.Material, error) {
	query := `SELECT ` + materialCols + ` FROM materiais ORDER BY codigo LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list materiais: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.Codigo, &m.Descricao, &m.Unidade, &m.Quantidade,
			&m.CentroCustoID, &m.CriadoEm, &m.AtualizadoEm); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
