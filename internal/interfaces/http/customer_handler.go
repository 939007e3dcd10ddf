package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Clientes-api/internal/application/dto"
	"github.com/jhoicas/Clientes-api/internal/application/errlog"
	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/application/usecase"
	"github.com/jhoicas/Clientes-api/internal/domain"
)

// CustomerHandler maneja las peticiones HTTP de clientes (protegido).
// Las mutaciones propagan a Shopify antes de escribir localmente: un fallo
// del remoto se traduce a 502 y el registro local queda intacto.
type CustomerHandler struct {
	uc      *usecase.CustomerUseCase
	errlogs *errlog.Recorder
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase, errlogs *errlog.Recorder) *CustomerHandler {
	return &CustomerHandler{uc: uc, errlogs: errlogs}
}

// Create godoc
// @Summary      Crear cliente (propaga a Shopify)
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	customer, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// GetByID GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	customer, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(customer)
}

// List GET /api/customers?keyword=ana&limit=20&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.uc.List(c.Query("keyword"), page)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	customer, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(customer)
}

// Delete DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CustomerHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case err == domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
	case err == domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "first_name o last_name son requeridos"})
	case err == domain.ErrDuplicate:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un cliente con ese shopifyId"})
	}
	var gwErr *appsync.GatewayError
	if errors.As(err, &gwErr) {
		userID := GetUserID(c)
		h.errlogs.Record("ERROR", err.Error(), "", c.Path(), c.Method(), &userID)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SHOPIFY_ERROR", Message: err.Error()})
	}
	userID := GetUserID(c)
	h.errlogs.Record("ERROR", err.Error(), "", c.Path(), c.Method(), &userID)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
