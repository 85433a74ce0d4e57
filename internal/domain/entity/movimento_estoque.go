package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimento de estoque.
const (
	MovimentoEntrada = "entrada"
	MovimentoSaida   = "saida"
	MovimentoAjuste  = "ajuste"
)

// MovimentoEstoque é um lançamento imutável do livro de estoque: registra uma
// variação de quantidade de um material, com o saldo antes e depois. Nunca é
// alterado; o processador de estorno restaura o saldo anterior e remove o
// lançamento ao desfazer um romaneio.
type MovimentoEstoque struct {
	ID string
	// Sequencia é a ordem global de aplicação dos lançamentos, atribuída pelo
	// banco na inserção. Desempata lançamentos com o mesmo criado_em: o
	// histórico ordena por ela e o estorno desfaz na ordem inversa.
	Sequencia           int64
	MaterialID          string
	Tipo                string
	Quantidade          decimal.Decimal // sempre positiva; o Tipo dá a direção
	QuantidadeAnterior  decimal.Decimal
	QuantidadePosterior decimal.Decimal
	RomaneioID          *string
	UsuarioID           *string
	Motivo              string
	CriadoEm            time.Time
}

// Entrada indica se o movimento soma ao saldo do material.
func (m *MovimentoEstoque) Entrada() bool {
	return m.Tipo == MovimentoEntrada
}
