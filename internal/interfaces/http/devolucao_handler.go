package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gcamargo/almoxarifado-api/internal/application/dto"
	"github.com/gcamargo/almoxarifado-api/internal/application/romaneio"
)

// DevolucaoHandler trata as requisições HTTP de reconciliação de devoluções.
type DevolucaoHandler struct {
	devolucoes *romaneio.DevolucaoService
}

// NewDevolucaoHandler constrói o handler.
func NewDevolucaoHandler(devolucoes *romaneio.DevolucaoService) *DevolucaoHandler {
	return &DevolucaoHandler{devolucoes: devolucoes}
}

// ItensPendentes godoc
// @Summary      Linhas da retirada ainda não devolvidas
// @Tags         devolucoes
// @Produce      json
// @Param        id  path  string  true  "ID do romaneio de retirada"
// @Success      200  {array}  dto.CandidatoDevolucaoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/romaneios/{id}/devolucao/itens-pendentes [get]
func (h *DevolucaoHandler) ItensPendentes(c *fiber.Ctx) error {
	candidatos, err := h.devolucoes.ItensPendentes(c.Context(), c.Params("id"))
	if err != nil {
		return erroHTTP(c, err)
	}
	out := make([]dto.CandidatoDevolucaoResponse, 0, len(candidatos))
	for _, cand := range candidatos {
		out = append(out, dto.CandidatoDevolucaoResponse{
			ItemID:             cand.Item.ID,
			MaterialID:         cand.Item.MaterialID,
			Quantidade:         cand.Item.Quantidade,
			QuantidadePendente: cand.QuantidadePendente,
			ValorUnitario:      cand.Item.ValorUnitario,
			Patrimonio:         cand.Item.Patrimonio,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "itens": out})
}

// Status godoc
// @Summary      Status de reconciliação da retirada
// @Tags         devolucoes
// @Produce      json
// @Param        id  path  string  true  "ID do romaneio de retirada"
// @Success      200  {object}  dto.StatusReconciliacaoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/romaneios/{id}/devolucao/status [get]
func (h *DevolucaoHandler) Status(c *fiber.Ctx) error {
	id := c.Params("id")
	status, err := h.devolucoes.StatusReconciliacao(c.Context(), id)
	if err != nil {
		return erroHTTP(c, err)
	}
	return c.JSON(dto.StatusReconciliacaoResponse{RomaneioID: id, Status: status})
}

// Criar godoc
// @Summary      Criar devolução seletiva contra uma retirada
// @Description  Falha com RETURN_IN_FLIGHT se já houver devolução em aberto para a retirada.
// @Tags         devolucoes
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID do romaneio de retirada"
// @Param        body  body  dto.CriarDevolucaoRequest  true  "IDs das linhas em aberto a devolver"
// @Success      201   {object}  dto.RomaneioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/romaneios/{id}/devolucoes [post]
func (h *DevolucaoHandler) Criar(c *fiber.Ctx) error {
	var in dto.CriarDevolucaoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.devolucoes.CriarDevolucaoSeletiva(c.Context(), c.Params("id"), in.ItemIDs, GetUsuarioID(c))
	if err != nil {
		return erroHTTP(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRomaneio(out.Romaneio, out.Avisos))
}

// Desfazer godoc
// @Summary      Desfazer a devolução de uma linha de retirada
// @Tags         devolucoes
// @Produce      json
// @Param        itemId  path  string  true  "ID da linha da retirada"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/romaneios/itens/{itemId}/desfazer-devolucao [post]
func (h *DevolucaoHandler) Desfazer(c *fiber.Ctx) error {
	if err := h.devolucoes.DesfazerDevolucao(c.Context(), c.Params("itemId"), GetUsuarioID(c)); err != nil {
		return erroHTTP(c, err)
	}
	return c.JSON(fiber.Map{"status": "desfeito"})
}
