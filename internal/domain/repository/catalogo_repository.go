package repository

import "github.com/gcamargo/almoxarifado-api/internal/domain/entity"

// CentroCustoRepository define o porto de persistência de centros de custo.
type CentroCustoRepository interface {
	Create(cc *entity.CentroCusto) error
	GetByID(id string) (*entity.CentroCusto, error)
	List(limit, offset int) ([]*entity.CentroCusto, error)
}

// FuncionarioRepository define o porto de persistência de funcionários/fornecedores.
type FuncionarioRepository interface {
	Create(f *entity.Funcionario) error
	GetByID(id string) (*entity.Funcionario, error)
}
