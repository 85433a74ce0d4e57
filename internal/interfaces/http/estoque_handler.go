package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gcamargo/almoxarifado-api/internal/application/dto"
	"github.com/gcamargo/almoxarifado-api/internal/application/estoque"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

// EstoqueHandler expõe as projeções de leitura do livro de estoque.
type EstoqueHandler struct {
	ledger     *estoque.Ledger
	movimentos repository.MovimentoEstoqueRepository
}

// NewEstoqueHandler constrói o handler.
func NewEstoqueHandler(ledger *estoque.Ledger, movimentos repository.MovimentoEstoqueRepository) *EstoqueHandler {
	return &EstoqueHandler{ledger: ledger, movimentos: movimentos}
}

// Saldo godoc
// @Summary      Saldo atual de um material
// @Tags         estoque
// @Produce      json
// @Param        id  path  string  true  "ID do material"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materiais/{id}/saldo [get]
func (h *EstoqueHandler) Saldo(c *fiber.Ctx) error {
	id := c.Params("id")
	saldo, err := h.ledger.SaldoAtual(c.Context(), id)
	if err != nil {
		return erroHTTP(c, err)
	}
	return c.JSON(fiber.Map{"material_id": id, "saldo": saldo})
}

// Movimentos godoc
// @Summary      Histórico de movimentos de um material (mais recente primeiro)
// @Tags         estoque
// @Produce      json
// @Param        id      path   string  true   "ID do material"
// @Param        limit   query  int     false  "Tamanho da página"
// @Param        offset  query  int     false  "Deslocamento"
// @Success      200  {array}  dto.MovimentoResponse
// @Router       /api/materiais/{id}/movimentos [get]
func (h *EstoqueHandler) Movimentos(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	page.DefaultPage()

	movs, err := h.movimentos.ListByMaterial(c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return erroHTTP(c, err)
	}
	out := make([]dto.MovimentoResponse, 0, len(movs))
	for _, m := range movs {
		resp := dto.MovimentoResponse{
			ID:                  m.ID,
			Sequencia:           m.Sequencia,
			MaterialID:          m.MaterialID,
			Tipo:                m.Tipo,
			Quantidade:          m.Quantidade,
			QuantidadeAnterior:  m.QuantidadeAnterior,
			QuantidadePosterior: m.QuantidadePosterior,
			RomaneioID:          m.RomaneioID,
			Motivo:              m.Motivo,
			CriadoEm:            m.CriadoEm,
		}
		out = append(out, resp)
	}
	return c.JSON(fiber.Map{"total": len(out), "movimentos": out})
}
