package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gcamargo/almoxarifado-api/internal/application/estoque"
	"github.com/gcamargo/almoxarifado-api/internal/application/romaneio"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	Criar      *romaneio.CriarRomaneioUseCase
	Aprovador  *romaneio.AprovarRomaneioUseCase
	Excluir    *romaneio.ExcluirRomaneioUseCase
	Devolucoes *romaneio.DevolucaoService
	Ledger     *estoque.Ledger
	Romaneios  repository.RomaneioRepository
	Movimentos repository.MovimentoEstoqueRepository
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	romaneios := api.Group("/romaneios")
	romaneioHandler := NewRomaneioHandler(deps.Criar, deps.Aprovador, deps.Excluir, deps.Romaneios)
	romaneios.Post("/", romaneioHandler.Criar)
	romaneios.Get("/", romaneioHandler.Listar)
	romaneios.Get("/:id", romaneioHandler.GetByID)
	romaneios.Post("/:id/aprovar", romaneioHandler.Aprovar)
	romaneios.Post("/:id/cancelar", romaneioHandler.Cancelar)
	romaneios.Delete("/:id", romaneioHandler.Excluir)

	devolucaoHandler := NewDevolucaoHandler(deps.Devolucoes)
	romaneios.Get("/:id/devolucao/itens-pendentes", devolucaoHandler.ItensPendentes)
	romaneios.Get("/:id/devolucao/status", devolucaoHandler.Status)
	romaneios.Post("/:id/devolucoes", devolucaoHandler.Criar)
	romaneios.Post("/itens/:itemId/desfazer-devolucao", devolucaoHandler.Desfazer)

	materiais := api.Group("/materiais")
	estoqueHandler := NewEstoqueHandler(deps.Ledger, deps.Movimentos)
	materiais.Get("/:id/saldo", estoqueHandler.Saldo)
	materiais.Get("/:id/movimentos", estoqueHandler.Movimentos)
}
