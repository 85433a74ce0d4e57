package repository

import "github.com/gcamargo/almoxarifado-api/internal/domain/entity"

// MovimentoEstoqueRepository define o porto de persistência do livro de movimentos.
// Lançamentos nunca são atualizados; Delete existe apenas para o processador de
// estorno, que restaura o saldo anterior e remove o lançamento.
type MovimentoEstoqueRepository interface {
	Create(mov *entity.MovimentoEstoque) error
	ListByMaterial(materialID string, limit, offset int) ([]*entity.MovimentoEstoque, error)
	ListByRomaneio(romaneioID string) ([]*entity.MovimentoEstoque, error)
	Delete(id string) error
}

// SequenciaRepository define o porto do contador atômico de numeração de romaneios.
type SequenciaRepository interface {
	// Proximo incrementa e devolve o valor do contador da chave dada, de forma
	// atômica sob chamadores concorrentes.
	Proximo(chave string) (int64, error)
}
