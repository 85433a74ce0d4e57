package repository

import (
	"time"

	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
)

// RomaneioRepository define o porto de persistência do cabeçalho de romaneio.
type RomaneioRepository interface {
	Create(r *entity.Romaneio) error
	GetByID(id string) (*entity.Romaneio, error)
	// GetForUpdate bloqueia a linha do romaneio (SELECT FOR UPDATE) para
	// serializar aprovações concorrentes sobre o mesmo documento.
	GetForUpdate(id string) (*entity.Romaneio, error)
	UpdateStatus(id, status string, em time.Time) error
	Delete(id string) error
	// ExisteDevolucaoAberta responde se há romaneio de devolução não finalizado
	// (pendente ou aprovado) apontando para a retirada dada.
	ExisteDevolucaoAberta(romaneioOrigemID string) (bool, error)
	List(tipo string, limit, offset int) ([]*entity.Romaneio, error)
}

// RomaneioItemRepository define o porto de persistência das linhas de romaneio.
type RomaneioItemRepository interface {
	Create(item *entity.RomaneioItem) error
	GetByID(id string) (*entity.RomaneioItem, error)
	ListByRomaneio(romaneioID string) ([]*entity.RomaneioItem, error)
	// MarcarDevolvido grava o carimbo de devolução só se ainda for nulo;
	// devolve false quando a linha já estava devolvida (idempotência).
	MarcarDevolvido(id string, em time.Time) (bool, error)
	// LimparDevolucao volta o carimbo de devolução a nulo (desfazer).
	LimparDevolucao(id string) error
	DeleteByRomaneio(romaneioID string) error
}
