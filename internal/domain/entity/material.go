package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa um item do catálogo patrimonial. O saldo (Quantidade) só é
// mutado pelo livro de movimentos; o dono atual (CentroCustoID) só é mutado pelos
// processadores de aprovação e estorno.
type Material struct {
	ID            string
	Codigo        string
	Descricao     string
	Unidade       string
	Quantidade    decimal.Decimal
	CentroCustoID string
	CriadoEm      time.Time
	AtualizadoEm  time.Time
}
