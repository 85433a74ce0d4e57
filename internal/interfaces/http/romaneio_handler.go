package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gcamargo/almoxarifado-api/internal/application/dto"
	"github.com/gcamargo/almoxarifado-api/internal/application/romaneio"
	"github.com/gcamargo/almoxarifado-api/internal/domain/repository"
)

// RomaneioHandler trata as requisições HTTP de romaneios.
type RomaneioHandler struct {
	criar     *romaneio.CriarRomaneioUseCase
	aprovador *romaneio.AprovarRomaneioUseCase
	excluir   *romaneio.ExcluirRomaneioUseCase
	romaneios repository.RomaneioRepository
}

// NewRomaneioHandler constrói o handler.
func NewRomaneioHandler(
	criar *romaneio.CriarRomaneioUseCase,
	aprovador *romaneio.AprovarRomaneioUseCase,
	excluir *romaneio.ExcluirRomaneioUseCase,
	romaneios repository.RomaneioRepository,
) *RomaneioHandler {
	return &RomaneioHandler{criar: criar, aprovador: aprovador, excluir: excluir, romaneios: romaneios}
}

// Criar godoc
// @Summary      Criar romaneio
// @Tags         romaneios
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CriarRomaneioRequest  true  "tipo, centros de custo, linhas; aprovar_automaticamente opcional"
// @Success      201   {object}  dto.RomaneioResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/romaneios [post]
func (h *RomaneioHandler) Criar(c *fiber.Ctx) error {
	var in dto.CriarRomaneioRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}

	input := romaneio.CriarRomaneioInput{
		Tipo:                   in.Tipo,
		CentroCustoOrigemID:    in.CentroCustoOrigemID,
		CentroCustoDestinoID:   in.CentroCustoDestinoID,
		FuncionarioID:          in.FuncionarioID,
		RomaneioOrigemID:       in.RomaneioOrigemID,
		Observacoes:            in.Observacoes,
		UsuarioID:              GetUsuarioID(c),
		AprovarAutomaticamente: in.AprovarAutomaticamente,
	}
	if in.DataEmissao != nil {
		input.DataEmissao = *in.DataEmissao
	}
	for _, linha := range in.Linhas {
		input.Linhas = append(input.Linhas, romaneio.LinhaInput{
			MaterialID:    linha.MaterialID,
			Quantidade:    linha.Quantidade,
			ValorUnitario: linha.ValorUnitario,
			Patrimonio:    linha.Patrimonio,
			Observacoes:   linha.Observacoes,
			ItemOrigemID:  linha.ItemOrigemID,
		})
	}

	out, err := h.criar.Criar(c.Context(), input)
	if err != nil {
		return erroHTTP(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromRomaneio(out.Romaneio, out.Avisos))
}

// Aprovar godoc
// @Summary      Aprovar romaneio pendente
// @Tags         romaneios
// @Produce      json
// @Param        id  path  string  true  "ID do romaneio"
// @Success      200  {object}  dto.RomaneioResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/romaneios/{id}/aprovar [post]
func (h *RomaneioHandler) Aprovar(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.aprovador.Aprovar(c.Context(), id, GetUsuarioID(c)); err != nil {
		return erroHTTP(c, err)
	}
	rom, err := h.romaneios.GetByID(id)
	if err != nil || rom == nil {
		return c.JSON(fiber.Map{"status": "aprovado"})
	}
	return c.JSON(dto.FromRomaneio(rom, nil))
}

// Cancelar godoc
// @Summary      Cancelar romaneio pendente (sem efeito de estoque)
// @Tags         romaneios
// @Produce      json
// @Param        id  path  string  true  "ID do romaneio"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/romaneios/{id}/cancelar [post]
func (h *RomaneioHandler) Cancelar(c *fiber.Ctx) error {
	if err := h.aprovador.Cancelar(c.Context(), c.Params("id")); err != nil {
		return erroHTTP(c, err)
	}
	return c.JSON(fiber.Map{"status": "cancelado"})
}

// Excluir godoc
// @Summary      Excluir romaneio, estornando efeitos de estoque e posse
// @Description  Estorno best-effort: falhas parciais viram avisos, a exclusão prossegue.
// @Tags         romaneios
// @Produce      json
// @Param        id  path  string  true  "ID do romaneio"
// @Success      200  {object}  dto.ExclusaoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/romaneios/{id} [delete]
func (h *RomaneioHandler) Excluir(c *fiber.Ctx) error {
	resultado, err := h.excluir.Excluir(c.Context(), c.Params("id"))
	if err != nil {
		return erroHTTP(c, err)
	}
	return c.JSON(dto.ExclusaoResponse{Status: "excluido", Avisos: resultado.Avisos})
}

// GetByID godoc
// @Summary      Consultar romaneio
// @Tags         romaneios
// @Produce      json
// @Param        id  path  string  true  "ID do romaneio"
// @Success      200  {object}  dto.RomaneioResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/romaneios/{id} [get]
func (h *RomaneioHandler) GetByID(c *fiber.Ctx) error {
	rom, err := h.romaneios.GetByID(c.Params("id"))
	if err != nil {
		return erroHTTP(c, err)
	}
	if rom == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "romaneio não encontrado"})
	}
	return c.JSON(dto.FromRomaneio(rom, nil))
}

// Listar godoc
// @Summary      Listar romaneios
// @Tags         romaneios
// @Produce      json
// @Param        tipo    query  string  false  "Filtrar por tipo"
// @Param        limit   query  int     false  "Tamanho da página"
// @Param        offset  query  int     false  "Deslocamento"
// @Success      200  {array}  dto.RomaneioResponse
// @Router       /api/romaneios [get]
func (h *RomaneioHandler) Listar(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	page.DefaultPage()

	list, err := h.romaneios.List(c.Query("tipo"), page.Limit, page.Offset)
	if err != nil {
		return erroHTTP(c, err)
	}
	out := make([]dto.RomaneioResponse, 0, len(list))
	for _, rom := range list {
		out = append(out, dto.FromRomaneio(rom, nil))
	}
	return c.JSON(fiber.Map{"total": len(out), "romaneios": out})
}
