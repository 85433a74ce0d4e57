package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
)

// LinhaRomaneioRequest linha no body de POST /api/romaneios. ItemOrigemID é
// obrigatório em devoluções e aponta para a linha da retirada devolvida.
type LinhaRomaneioRequest struct {
	MaterialID    string          `json:"material_id"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	Patrimonio    string          `json:"patrimonio,omitempty"`
	Observacoes   string          `json:"observacoes,omitempty"`
	ItemOrigemID  *string         `json:"item_origem_id,omitempty"`
}

// CriarRomaneioRequest body para POST /api/romaneios.
type CriarRomaneioRequest struct {
	Tipo                   string                 `json:"tipo"`
	CentroCustoOrigemID    string                 `json:"centro_custo_origem_id,omitempty"`
	CentroCustoDestinoID   string                 `json:"centro_custo_destino_id"`
	FuncionarioID          string                 `json:"funcionario_id,omitempty"`
	RomaneioOrigemID       *string                `json:"romaneio_origem_id,omitempty"`
	DataEmissao            *time.Time             `json:"data_emissao,omitempty"`
	Observacoes            string                 `json:"observacoes,omitempty"`
	AprovarAutomaticamente bool                   `json:"aprovar_automaticamente,omitempty"`
	Linhas                 []LinhaRomaneioRequest `json:"linhas"`
}

// RomaneioResponse projeção de um romaneio em respostas HTTP.
type RomaneioResponse struct {
	ID                   string     `json:"id"`
	Numero               string     `json:"numero"`
	Tipo                 string     `json:"tipo"`
	Status               string     `json:"status"`
	CentroCustoOrigemID  string     `json:"centro_custo_origem_id,omitempty"`
	CentroCustoDestinoID string     `json:"centro_custo_destino_id"`
	FuncionarioID        string     `json:"funcionario_id,omitempty"`
	RomaneioOrigemID     *string    `json:"romaneio_origem_id,omitempty"`
	DataEmissao          time.Time  `json:"data_emissao"`
	Observacoes          string     `json:"observacoes,omitempty"`
	Avisos               []string   `json:"avisos,omitempty"`
}

// FromRomaneio monta a projeção a partir da entidade.
func FromRomaneio(r *entity.Romaneio, avisos []string) RomaneioResponse {
	return RomaneioResponse{
		ID:                   r.ID,
		Numero:               r.Numero,
		Tipo:                 r.Tipo,
		Status:               r.Status,
		CentroCustoOrigemID:  r.CentroCustoOrigemID,
		CentroCustoDestinoID: r.CentroCustoDestinoID,
		FuncionarioID:        r.FuncionarioID,
		RomaneioOrigemID:     r.RomaneioOrigemID,
		DataEmissao:          r.DataEmissao,
		Observacoes:          r.Observacoes,
		Avisos:               avisos,
	}
}

// ExclusaoResponse resultado de DELETE /api/romaneios/:id.
type ExclusaoResponse struct {
	Status string   `json:"status"`
	Avisos []string `json:"avisos,omitempty"`
}
