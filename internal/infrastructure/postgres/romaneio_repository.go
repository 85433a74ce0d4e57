package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gcamargo/almoxarifado-api/internal/domain"
	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

var _ repository.RomaneioRepository = (*RomaneioRepo)(nil)

// RomaneioRepo implementação de RomaneioRepository sobre PostgreSQL (usável com pool ou tx).
type RomaneioRepo struct {
	q Querier
}

// NewRomaneioRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewRomaneioRepository(q Querier) *RomaneioRepo {
	return &RomaneioRepo{q: q}
}

const romaneioCols = `id, numero, tipo, status, centro_custo_origem_id, centro_custo_destino_id,
		funcionario_id, romaneio_origem_id, data_emissao, observacoes, criado_em, atualizado_em`

func scanRomaneio(row pgx.Row) (*entity.Romaneio, error) {
	var r entity.Romaneio
	var origem, funcionario *string
	err := row.Scan(&r.ID, &r.Numero, &r.Tipo, &r.Status, &origem, &r.CentroCustoDestinoID,
		&funcionario, &r.RomaneioOrigemID, &r.DataEmissao, &r.Observacoes, &r.CriadoEm, &r.AtualizadoEm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan romaneio: %w", err)
	}
	if origem != nil {
		r.CentroCustoOrigemID = *origem
	}
	if funcionario != nil {
		r.FuncionarioID = *funcionario
	}
	return &r, nil
}

// Create persiste o cabeçalho. A violação do índice único parcial de devoluções
// em aberto (uma por retirada) vira ErrDevolucaoEmAberto: é o guarda de
// concorrência contra duas devoluções criadas ao mesmo tempo.
func (r *RomaneioRepo) Create(rom *entity.Romaneio) error {
	query := `
		INSERT INTO romaneios (` + romaneioCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	var origem, funcionario *string
	if rom.CentroCustoOrigemID != "" {
		origem = &rom.CentroCustoOrigemID
	}
	if rom.FuncionarioID != "" {
		funcionario = &rom.FuncionarioID
	}
	_, err := r.q.Exec(context.Background(), query,
		rom.ID, rom.Numero, rom.Tipo, rom.Status, origem, rom.CentroCustoDestinoID,
		funcionario, rom.RomaneioOrigemID, rom.DataEmissao, rom.Observacoes,
		rom.CriadoEm, rom.AtualizadoEm)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDevolucaoEmAberto
		}
		return fmt.Errorf("create romaneio: %w", err)
	}
	return nil
}

// GetByID obtém um romaneio por ID. Devolve nil quando não existe.
func (r *RomaneioRepo) GetByID(id string) (*entity.Romaneio, error) {
	query := `SELECT ` + romaneioCols + ` FROM romaneios WHERE id = $1`
	return scanRomaneio(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtém o romaneio bloqueando a linha (SELECT FOR UPDATE),
// serializando transições de status concorrentes.
func (r *RomaneioRepo) GetForUpdate(id string) (*entity.Romaneio, error) {
	query := `SELECT ` + romaneioCols + ` FROM romaneios WHERE id = $1 FOR UPDATE`
	return scanRomaneio(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStatus grava o novo status do romaneio.
func (r *RomaneioRepo) UpdateStatus(id, status string, em time.Time) error {
	query := `UPDATE romaneios SET status = $2, atualizado_em = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, em)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// Delete remove o cabeçalho do romaneio.
func (r *RomaneioRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM romaneios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete romaneio: %w", err)
	}
	return nil
}

// ExisteDevolucaoAberta responde se há devolução não finalizada (pendente ou
// aprovada) apontando para a retirada dada.
func (r *RomaneioRepo) ExisteDevolucaoAberta(romaneioOrigemID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM romaneios
			WHERE romaneio_origem_id = $1 AND tipo = $2 AND status IN ($3, $4)
		)`
	var existe bool
	err := r.q.QueryRow(context.Background(), query, romaneioOrigemID,
		entity.TipoDevolucao, entity.StatusPendente, entity.StatusAprovado).Scan(&existe)
	if err != nil {
		return false, fmt.Errorf("existe devolução aberta: %w", err)
	}
	return existe, nil
}

// List lista romaneios paginados, opcionalmente filtrados por tipo.
func (r *RomaneioRepo) List(tipo string, limit, offset int) ([]*entity.Romaneio, error) {
	query := `SELECT ` + romaneioCols + ` FROM romaneios`
	args := []any{}
	pos := 1
	if tipo != "" {
		query += fmt.Sprintf(" WHERE tipo = $%d", pos)
		args = append(args, tipo)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY data_emissao DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list romaneios: %w", err)
	}
	defer rows.Close()
	var list []*entity.Romaneio
	for rows.Next() {
		var rom entity.Romaneio
		var origem, funcionario *string
		if err := rows.Scan(&rom.ID, &rom.Numero, &rom.Tipo, &rom.Status, &origem,
			&rom.CentroCustoDestinoID, &funcionario, &rom.RomaneioOrigemID,
			&rom.DataEmissao, &rom.Observacoes, &rom.CriadoEm, &rom.AtualizadoEm); err != nil {
			return nil, fmt.Errorf("scan romaneio: %w", err)
		}
		if origem != nil {
			rom.CentroCustoOrigemID = *origem
		}
		if funcionario != nil {
			rom.FuncionarioID = *funcionario
		}
		list = append(list, &rom)
	}
	return list, rows.Err()
}
