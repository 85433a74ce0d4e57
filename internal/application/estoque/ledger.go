package estoque

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gcamargo/almoxarifado-api/internal/domain"
	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

// RegistroMovimento é a entrada para lançar um movimento no livro de estoque.
// Quantidade deve ser positiva para entrada/saida; em ajustes pode ser negativa
// (ajuste para baixo). O saldo resultante nunca pode ficar negativo.
type RegistroMovimento struct {
	MaterialID string
	Tipo       string
	Quantidade decimal.Decimal
	Motivo     string
	RomaneioID *string
	UsuarioID  string
	Em         time.Time
}

// Registrar lança um movimento usando os repositórios do chamador (mesma
// transação): bloqueia a linha do material, calcula saldo anterior/posterior,
// atualiza o saldo e grava o lançamento. Saldo e lançamento são atômicos porque
// ambos acontecem na transação do chamador.
func Registrar(
	materiais repository.MaterialRepository,
	movimentos repository.MovimentoEstoqueRepository,
	in RegistroMovimento,
) (*entity.MovimentoEstoque, error) {
	switch in.Tipo {
	case entity.MovimentoEntrada, entity.MovimentoSaida:
		if !in.Quantidade.GreaterThan(decimal.Zero) {
			return nil, domain.ErrEntradaInvalida
		}
	case entity.MovimentoAjuste:
		if in.Quantidade.IsZero() {
			return nil, domain.ErrEntradaInvalida
		}
	default:
		return nil, domain.ErrEntradaInvalida
	}

	// Bloqueia a linha do material para evitar lost update de saldo sob
	// aprovações concorrentes que tocam o mesmo material.
	mat, err := materiais.GetForUpdate(in.MaterialID)
	if err != nil {
		return nil, err
	}
	if mat == nil {
		return nil, domain.ErrNaoEncontrado
	}

	anterior := mat.Quantidade
	delta := in.Quantidade
	if in.Tipo == entity.MovimentoSaida {
		delta = delta.Neg()
	}
	posterior := anterior.Add(delta)
	if posterior.IsNegative() {
		return nil, domain.ErrEstoqueInsuficiente
	}

	if err := materiais.UpdateSaldo(in.MaterialID, posterior, in.Em); err != nil {
		return nil, err
	}

	var usuario *string
	if in.UsuarioID != "" {
		usuario = &in.UsuarioID
	}
	mov := &entity.MovimentoEstoque{
		ID:                  uuid.New().String(),
		MaterialID:          in.MaterialID,
		Tipo:                in.Tipo,
		Quantidade:          in.Quantidade.Abs(),
		QuantidadeAnterior:  anterior,
		QuantidadePosterior: posterior,
		RomaneioID:          in.RomaneioID,
		UsuarioID:           usuario,
		Motivo:              in.Motivo,
		CriadoEm:            in.Em,
	}
	if err := movimentos.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Ledger expõe as projeções de leitura do livro de estoque (saldo e histórico).
type Ledger struct {
	materiais  repository.MaterialRepository
	movimentos repository.MovimentoEstoqueRepository
}

// NewLedger constrói as projeções com repositórios atados ao pool.
func NewLedger(materiais repository.MaterialRepository, movimentos repository.MovimentoEstoqueRepository) *Ledger {
	return &Ledger{materiais: materiais, movimentos: movimentos}
}

// SaldoAtual devolve a quantidade em mãos do material; o campo de saldo do
// material reflete sempre o último lançamento do livro.
func (l *Ledger) SaldoAtual(ctx context.Context, materialID string) (decimal.Decimal, error) {
	mat, err := l.materiais.GetByID(materialID)
	if err != nil {
		return decimal.Zero, err
	}
	if mat == nil {
		return decimal.Zero, domain.ErrNaoEncontrado
	}
	return mat.Quantidade, nil
}

// tamanho de página interno do iterador de histórico
const paginaHistorico = 100

// Historico devolve os lançamentos do material em ordem cronológica inversa,
// como sequência preguiçosa e reiniciável: cada range sobre a sequência refaz a
// paginação do início.
func (l *Ledger) Historico(ctx context.Context, materialID string) iter.Seq2[*entity.MovimentoEstoque, error] {
	return func(yield func(*entity.MovimentoEstoque, error) bool) {
		offset := 0
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			pagina, err := l.movimentos.ListByMaterial(materialID, paginaHistorico, offset)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, mov := range pagina {
				if !yield(mov, nil) {
					return
				}
			}
			if len(pagina) < paginaHistorico {
				return
			}
			offset += len(pagina)
		}
	}
}
