// seed popula o catálogo de referência (centros de custo, funcionários e
// materiais) para ambiente de desenvolvimento.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gcamargo/almoxarifado-api/internal/domain/entity"
	"github.com/gcamargo/almoxarifado-api/internal/infrastructure/postgres"
	"github.com/gcamargo/almoxarifado-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "carregar configuração: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexão ao PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	agora := time.Now()
	centros := postgres.NewCentroCustoRepository(pool)
	funcionarios := postgres.NewFuncionarioRepository(pool)
	materiais := postgres.NewMaterialRepository(pool)

	almoxarifado := &entity.CentroCusto{ID: uuid.New().String(), Codigo: "ALM-01", Nome: "Almoxarifado Central", CriadoEm: agora}
	obra := &entity.CentroCusto{ID: uuid.New().String(), Codigo: "OBR-01", Nome: "Obra Matriz", CriadoEm: agora}
	for _, cc := range []*entity.CentroCusto{almoxarifado, obra} {
		if err := centros.Create(cc); err != nil {
			fmt.Fprintf(os.Stderr, "criar centro de custo %s: %v\n", cc.Codigo, err)
			os.Exit(1)
		}
	}

	func1 := &entity.Funcionario{ID: uuid.New().String(), Matricula: "F-0001", Nome: "João da Silva", CriadoEm: agora}
	if err := funcionarios.Create(func1); err != nil {
		fmt.Fprintf(os.Stderr, "criar funcionário: %v\n", err)
		os.Exit(1)
	}

	itens := []*entity.Material{
		{ID: uuid.New().String(), Codigo: "MAT-0001", Descricao: "Furadeira de impacto", Unidade: "un", Quantidade: decimal.NewFromInt(10), CentroCustoID: almoxarifado.ID, CriadoEm: agora, AtualizadoEm: agora},
		{ID: uuid.New().String(), Codigo: "MAT-0002", Descricao: "Cabo flexível 2,5mm (rolo 100m)", Unidade: "rl", Quantidade: decimal.NewFromInt(50), CentroCustoID: almoxarifado.ID, CriadoEm: agora, AtualizadoEm: agora},
		{ID: uuid.New().String(), Codigo: "MAT-0003", Descricao: "Capacete de segurança", Unidade: "un", Quantidade: decimal.NewFromInt(120), CentroCustoID: almoxarifado.ID, CriadoEm: agora, AtualizadoEm: agora},
	}
	for _, m := range itens {
		if err := materiais.Create(m); err != nil {
			fmt.Fprintf(os.Stderr, "criar material %s: %v\n", m.Codigo, err)
			os.Exit(1)
		}
	}

	fmt.Printf("seed concluído: 2 centros de custo, 1 funcionário, %d materiais\n", len(itens))
	fmt.Printf("ESTOQUE_CENTRO_CUSTO_PADRAO_ID=%s\n", almoxarifado.ID)
}
