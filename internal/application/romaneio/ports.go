package romaneio

import (
	"context"

	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

// Repos agrupa os repositórios atados a uma mesma transação de banco.
type Repos struct {
	Romaneios  repository.RomaneioRepository
	Itens      repository.RomaneioItemRepository
	Movimentos repository.MovimentoEstoqueRepository
	Materiais  repository.MaterialRepository
}

// TxRunner executa fn dentro de uma transação de BD, passando repositórios
// atados a essa transação. Garante atomicidade para o motor de movimentação:
// ou todos os efeitos de fn persistem, ou nenhum.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
