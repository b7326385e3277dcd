package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrofum/silos-api/internal/application/dto"
	"github.com/agrofum/silos-api/internal/application/silo"
	"github.com/agrofum/silos-api/internal/domain"
)

// SiloHandler maneja las peticiones HTTP para silos (protegido).
type SiloHandler struct {
	uc *silo.UseCase
}

// NewSiloHandler construye el handler.
func NewSiloHandler(uc *silo.UseCase) *SiloHandler {
	return &SiloHandler{uc: uc}
}

// Create godoc
// @Summary      Crear silo
// @Tags         silos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSiloRequest  true  "Datos del silo; number en 0 asigna el siguiente"
// @Success      201   {object}  dto.SiloResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/silos [post]
func (h *SiloHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSiloRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return siloError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener silo por ID con ocupación calculada
// @Tags         silos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del silo"
// @Success      200  {object}  dto.SiloResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/silos/{id} [get]
func (h *SiloHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(param(c, "id"))
	if err != nil {
		return siloError(c, err)
	}
	if filter := clientFilter(c); filter != "" && out.ClientEmail != filter {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar silos (admin todos; cliente solo los propios)
// @Tags         silos
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.SiloListResponse
// @Router       /api/silos [get]
func (h *SiloHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}
	out, err := h.uc.List(clientFilter(c), page.Limit, page.Offset)
	if err != nil {
		return siloError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar silo
// @Tags         silos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del silo"
// @Param        body  body  dto.UpdateSiloRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SiloResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/silos/{id} [put]
func (h *SiloHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSiloRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(param(c, "id"), in)
	if err != nil {
		return siloError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar silo (sus lotes quedan desasignados, no se borran)
// @Tags         silos
// @Security     Bearer
// @Param        id  path  string  true  "ID del silo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/silos/{id} [delete]
func (h *SiloHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(param(c, "id")); err != nil {
		return siloError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListBatches godoc
// @Summary      Listar lotes asignados a un silo
// @Tags         silos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del silo"
// @Success      200  {object}  dto.BatchListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/silos/{id}/batches [get]
func (h *SiloHandler) ListBatches(c *fiber.Ctx) error {
	out, err := h.uc.ListBatches(param(c, "id"))
	if err != nil {
		return siloError(c, err)
	}
	return c.JSON(out)
}

// siloError traduce errores de dominio a respuestas HTTP.
func siloError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "silo no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "número de silo ya registrado"})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
