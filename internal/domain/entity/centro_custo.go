package entity

import "time"

// CentroCusto representa uma unidade organizacional que detém materiais.
// Catálogo de referência: somente leitura para o motor de movimentação.
type CentroCusto struct {
	ID       string
	Codigo   string
	Nome     string
	CriadoEm time.Time
}

// Funcionario representa a contraparte (colaborador ou fornecedor) de um romaneio.
type Funcionario struct {
	ID        string
	Matricula string
	Nome      string
	CriadoEm  time.Time
}
