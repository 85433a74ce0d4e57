package entity

import "time"

// Tipos de romaneio.
const (
	TipoEntrada       = "entrada"
	TipoRetirada      = "retirada"
	TipoTransferencia = "transferencia"
	TipoDevolucao     = "devolucao"
)

// Status de romaneio.
const (
	StatusPendente  = "pendente"
	StatusAprovado  = "aprovado"
	StatusRetirado  = "retirado"
	StatusDevolvido = "devolvido"
	StatusCancelado = "cancelado"
)

// Status de reconciliação de uma retirada frente às suas devoluções.
const (
	ReconciliacaoPendente = "pendente"
	ReconciliacaoParcial  = "parcial"
	ReconciliacaoTotal    = "totalmente_devolvido"
)

// Romaneio é o cabeçalho de um documento de movimentação: um conjunto ordenado
// de itens que entra, sai, transfere ou devolve materiais entre centros de
// custo. Nasce sempre em pendente; só transiciona via processador de aprovação.
type Romaneio struct {
	ID                   string
	Numero               string
	Tipo                 string
	Status               string
	CentroCustoOrigemID  string // vazio quando a origem não se aplica (ex.: entrada de fornecedor)
	CentroCustoDestinoID string
	FuncionarioID        string
	RomaneioOrigemID     *string // devolução: retirada contra a qual se devolve
	DataEmissao          time.Time
	Observacoes          string
	CriadoEm             time.Time
	AtualizadoEm         time.Time
}

// TipoValido verifica se o tipo é um dos quatro suportados.
func TipoValido(tipo string) bool {
	switch tipo {
	case TipoEntrada, TipoRetirada, TipoTransferencia, TipoDevolucao:
		return true
	}
	return false
}

// Pendente indica se o romaneio ainda aguarda aprovação.
func (r *Romaneio) Pendente() bool { return r.Status == StatusPendente }

// Aprovado indica se o romaneio já produziu efeitos de estoque.
func (r *Romaneio) Aprovado() bool {
	switch r.Status {
	case StatusAprovado, StatusRetirado, StatusDevolvido:
		return true
	}
	return false
}

// Saida indica se a aprovação debita o saldo dos materiais.
func (r *Romaneio) Saida() bool {
	return r.Tipo == TipoRetirada || r.Tipo == TipoTransferencia
}

// TransferePosse indica se a aprovação muda o centro de custo dono dos materiais.
func (r *Romaneio) TransferePosse() bool {
	switch r.Tipo {
	case TipoRetirada, TipoTransferencia, TipoDevolucao:
		return true
	}
	return false
}

// StatusAposAprovacao devolve o status em que o romaneio fica ao ser aprovado:
// retiradas ficam "retirado", os demais tipos ficam "aprovado".
func (r *Romaneio) StatusAposAprovacao() string {
	if r.Tipo == TipoRetirada {
		return StatusRetirado
	}
	return StatusAprovado
}
