package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RomaneioItem é uma linha de romaneio. Em romaneios de devolução, ItemOrigemID
// aponta para a linha da retirada que está sendo devolvida; nos demais tipos o
// campo é nulo. DevolvidoEm só existe em linhas de retirada e é gravado uma
// única vez, quando a devolução que a inclui é aprovada.
type RomaneioItem struct {
	ID            string
	RomaneioID    string
	MaterialID    string
	Quantidade    decimal.Decimal
	ValorUnitario decimal.Decimal
	ValorTotal    decimal.Decimal
	Patrimonio    string // plaqueta/número de série, quando houver
	Observacoes   string
	ItemOrigemID  *string
	DevolvidoEm   *time.Time
	CriadoEm      time.Time
}

// Devolvido indica se a linha já foi devolvida.
func (i *RomaneioItem) Devolvido() bool { return i.DevolvidoEm != nil }

// Pendente indica se a linha ainda está em aberto (não devolvida).
func (i *RomaneioItem) Pendente() bool { return i.DevolvidoEm == nil }
