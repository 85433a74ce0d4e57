package postgres

import (
	"context"
	"fmt"

	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

var _ repository.MovimentoEstoqueRepository = (*MovimentoEstoqueRepo)(nil)
var _ repository.SequenciaRepository = (*SequenciaRepo)(nil)

// MovimentoEstoqueRepo implementação de MovimentoEstoqueRepository sobre PostgreSQL.
type MovimentoEstoqueRepo struct {
	q Querier
}

// NewMovimentoEstoqueRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMovimentoEstoqueRepository(q Querier) *MovimentoEstoqueRepo {
	return &MovimentoEstoqueRepo{q: q}
}

const movimentoCols = `id, sequencia, material_id, tipo, quantidade, quantidade_anterior, quantidade_posterior,
		romaneio_id, usuario_id, motivo, criado_em`

// Create persiste um lançamento do livro de estoque. A sequência de aplicação
// é atribuída pelo banco e devolvida na própria entidade.
func (r *MovimentoEstoqueRepo) Create(mov *entity.MovimentoEstoque) error {
	query := `
		INSERT INTO movimentos_estoque (id, material_id, tipo, quantidade, quantidade_anterior,
			quantidade_posterior, romaneio_id, usuario_id, motivo, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING sequencia`
	err := r.q.QueryRow(context.Background(), query,
		mov.ID, mov.MaterialID, mov.Tipo, mov.Quantidade, mov.QuantidadeAnterior,
		mov.QuantidadePosterior, mov.RomaneioID, mov.UsuarioID, mov.Motivo, mov.CriadoEm).
		Scan(&mov.Sequencia)
	if err != nil {
		return fmt.Errorf("create movimento: %w", err)
	}
	return nil
}

// ListByMaterial lista lançamentos de um material em ordem cronológica inversa.
func (r *MovimentoEstoqueRepo) ListByMaterial(materialID string, limit, offset int) ([]*entity.MovimentoEstoque, error) {
	query := `
		SELECT ` + movimentoCols + ` FROM movimentos_estoque
		WHERE material_id = $1 ORDER BY sequencia DESC LIMIT $2 OFFSET $3`
	return r.list(query, materialID, limit, offset)
}

// ListByRomaneio lista os lançamentos originados por um romaneio.
func (r *MovimentoEstoqueRepo) ListByRomaneio(romaneioID string) ([]*entity.MovimentoEstoque, error) {
	query := `
		SELECT ` + movimentoCols + ` FROM movimentos_estoque
		WHERE romaneio_id = $1 ORDER BY sequencia`
	return r.list(query, romaneioID)
}

func (r *MovimentoEstoqueRepo) list(query string, args ...any) ([]*entity.MovimentoEstoque, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimentos: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovimentoEstoque
	for rows.Next() {
		var m entity.MovimentoEstoque
		if err := rows.Scan(&m.ID, &m.Sequencia, &m.MaterialID, &m.Tipo, &m.Quantidade,
			&m.QuantidadeAnterior, &m.QuantidadePosterior, &m.RomaneioID,
			&m.UsuarioID, &m.Motivo, &m.CriadoEm); err != nil {
			return nil, fmt.Errorf("scan movimento: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Delete remove um lançamento. Usado apenas pelo processador de estorno.
func (r *MovimentoEstoqueRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM movimentos_estoque WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movimento: %w", err)
	}
	return nil
}

// SequenciaRepo contador atômico de numeração sobre PostgreSQL.
type SequenciaRepo struct {
	q Querier
}

// NewSequenciaRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewSequenciaRepository(q Querier) *SequenciaRepo {
	return &SequenciaRepo{q: q}
}

// Proximo incrementa e devolve o contador da chave em uma única instrução:
// o upsert é atômico sob chamadores concorrentes, sem contador em processo.
func (r *SequenciaRepo) Proximo(chave string) (int64, error) {
	query := `
		INSERT INTO sequencias (chave, valor) VALUES ($1, 1)
		ON CONFLICT (chave) DO UPDATE SET valor = sequencias.valor + 1
		RETURNING valor`
	var valor int64
	if err := r.q.QueryRow(context.Background(), query, chave).Scan(&valor); err != nil {
		return 0, fmt.Errorf("próximo da sequência: %w", err)
	}
	return valor, nil
}
