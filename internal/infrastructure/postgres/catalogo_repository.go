package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

var _ repository.CentroCustoRepository = (*CentroCustoRepo)(nil)
var _ repository.FuncionarioRepository = (*FuncionarioRepo)(nil)

// CentroCustoRepo implementação de CentroCustoRepository sobre PostgreSQL.
type CentroCustoRepo struct {
	q Querier
}

// NewCentroCustoRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewCentroCustoRepository(q Querier) *CentroCustoRepo {
	return &CentroCustoRepo{q: q}
}

// Create persiste um centro de custo.
func (r *CentroCustoRepo) Create(cc *entity.CentroCusto) error {
	query := `INSERT INTO centros_custo (id, codigo, nome, criado_em) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, cc.ID, cc.Codigo, cc.Nome, cc.CriadoEm)
	if err != nil {
		return fmt.Errorf("create centro de custo: %w", err)
	}
	return nil
}

// GetByID obtém um centro de custo por ID. Devolve nil quando não existe.
func (r *CentroCustoRepo) GetByID(id string) (*entity.CentroCusto, error) {
	query := `SELECT id, codigo, nome, criado_em FROM centros_custo WHERE id = $1`
	var cc entity.CentroCusto
	err := r.q.QueryRow(context.Background(), query, id).Scan(&cc.ID, &cc.Codigo, &cc.Nome, &cc.CriadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get centro de custo: %w", err)
	}
	return &cc, nil
}

// List lista centros de custo paginados por código.
func (r *CentroCustoRepo) List(limit, offset int) ([]*entity.CentroCusto, error) {
	query := `SELECT id, codigo, nome, criado_em FROM centros_custo ORDER BY codigo LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list centros de custo: %w", err)
	}
	defer rows.Close()
	var list []*entity.CentroCusto
	for rows.Next() {
		var cc entity.CentroCusto
		if err := rows.Scan(&cc.ID, &cc.Codigo, &cc.Nome, &cc.CriadoEm); err != nil {
			return nil, fmt.Errorf("scan centro de custo: %w", err)
		}
		list = append(list, &cc)
	}
	return list, rows.Err()
}

// FuncionarioRepo implementação de FuncionarioRepository sobre PostgreSQL.
type FuncionarioRepo struct {
	q Querier
}

// NewFuncionarioRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewFuncionarioRepository(q Querier) *FuncionarioRepo {
	return &FuncionarioRepo{q: q}
}

// Create persiste um funcionário/fornecedor.
func (r *FuncionarioRepo) Create(f *entity.Funcionario) error {
	query := `INSERT INTO funcionarios (id, matricula, nome, criado_em) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, f.ID, f.Matricula, f.Nome, f.CriadoEm)
	if err != nil {
		return fmt.Errorf("create funcionário: %w", err)
	}
	return nil
}

// GetByID obtém um funcionário por ID. Devolve nil quando não existe.
func (r *FuncionarioRepo) GetByID(id string) (*entity.Funcionario, error) {
	query := `SELECT id, matricula, nome, criado_em FROM funcionarios WHERE id = $1`
	var f entity.Funcionario
	err := r.q.QueryRow(context.Background(), query, id).Scan(&f.ID, &f.Matricula, &f.Nome, &f.CriadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get funcionário: %w", err)
	}
	return &f, nil
}
