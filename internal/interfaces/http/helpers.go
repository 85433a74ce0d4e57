package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gcamargo/almoxarifado-api/internal/application/dto"
	"github.com/gcamargo/almoxarifado-api/internal/domain"
)

// GetUsuarioID devolve o identificador do ator, propagado pela aplicação
// externa no header X-Usuario-ID (autenticação é responsabilidade dela).
func GetUsuarioID(c *fiber.Ctx) string {
	return c.Get("X-Usuario-ID")
}

// erroHTTP mapeia erros de domínio para status e corpo de erro HTTP.
func erroHTTP(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNaoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrEstoqueInsuficiente):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrStatusRomaneio):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STALE_STATUS", Message: err.Error()})
	case errors.Is(err, domain.ErrDevolucaoEmAberto):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RETURN_IN_FLIGHT", Message: err.Error()})
	case errors.Is(err, domain.ErrConflito):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
