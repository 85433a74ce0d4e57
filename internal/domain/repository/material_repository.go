package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
)

// MaterialRepository define o porto de persistência do catálogo de materiais.
// Saldo e centro de custo dono só devem ser alterados dentro de transações do
// motor de movimentação, com a linha bloqueada via GetForUpdate.
type MaterialRepository interface {
	Create(material *entity.Material) error
	GetByID(id string) (*entity.Material, error)
	// GetForUpdate bloqueia a linha do material (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Material, error)
	UpdateSaldo(id string, quantidade decimal.Decimal, em time.Time) error
	UpdateCentroCusto(id, centroCustoID string, em time.Time) error
	List(limit, offset int) ([]*entity.Material, error)
}
