package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CriarDevolucaoRequest body para POST /api/romaneios/:id/devolucoes.
type CriarDevolucaoRequest struct {
	ItemIDs []string `json:"item_ids"`
}

// CandidatoDevolucaoResponse linha de retirada ainda em aberto, para a tela de
// devolução seletiva.
type CandidatoDevolucaoResponse struct {
	ItemID             string          `json:"item_id"`
	MaterialID         string          `json:"material_id"`
	Quantidade         decimal.Decimal `json:"quantidade"`
	QuantidadePendente decimal.Decimal `json:"quantidade_pendente"`
	ValorUnitario      decimal.Decimal `json:"valor_unitario"`
	Patrimonio         string          `json:"patrimonio,omitempty"`
}

// StatusReconciliacaoResponse resposta de GET /api/romaneios/:id/devolucao/status.
type StatusReconciliacaoResponse struct {
	RomaneioID string `json:"romaneio_id"`
	Status     string `json:"status"`
}

// MovimentoResponse projeção de um lançamento do livro de estoque.
type MovimentoResponse struct {
	ID                  string          `json:"id"`
	Sequencia           int64           `json:"sequencia"`
	MaterialID          string          `json:"material_id"`
	Tipo                string          `json:"tipo"`
	Quantidade          decimal.Decimal `json:"quantidade"`
	QuantidadeAnterior  decimal.Decimal `json:"quantidade_anterior"`
	QuantidadePosterior decimal.Decimal `json:"quantidade_posterior"`
	RomaneioID          *string         `json:"romaneio_id,omitempty"`
	Motivo              string          `json:"motivo,omitempty"`
	CriadoEm            time.Time       `json:"criado_em"`
}
