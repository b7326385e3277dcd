package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/agrofum/silos-api/internal/application/batch"
	"github.com/agrofum/silos-api/internal/application/dto"
	"github.com/agrofum/silos-api/internal/domain"
)

// param copia un parámetro de ruta. Fiber reutiliza el buffer de la petición:
// un Params crudo que el caso de uso retenga (SiloID del lote, asiento de
// corrección) muta con la siguiente petición.
func param(c *fiber.Ctx, name string) string {
	return utils.CopyString(c.Params(name))
}

// BatchHandler maneja las peticiones HTTP para lotes de grano (protegido).
type BatchHandler struct {
	uc *batch.UseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *batch.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Add godoc
// @Summary      Registrar lote en un silo (descarga de barco)
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del silo"
// @Param        body  body  dto.CreateBatchRequest  true  "Datos del lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/silos/{id}/batches [post]
func (h *BatchHandler) Add(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddBatch(c.Context(), param(c, "id"), in)
	if err != nil {
		return batchError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar lote; cambios de cantidad asientan corrección previa
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "ID del silo"
// @Param        batchId  path  string                  true  "ID del lote"
// @Param        body     body  dto.UpdateBatchRequest  true  "Campos a actualizar"
// @Success      200      {object}  dto.BatchResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/silos/{id}/batches/{batchId} [put]
func (h *BatchHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateBatch(c.Context(), param(c, "id"), param(c, "batchId"), in)
	if err != nil {
		return batchError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Retirar o eliminar un lote de un silo
// @Description  Por defecto retira el lote del silo conservando la fila y su
//               historial. Con permanent=true elimina la fila; los asientos de
//               los libros se conservan huérfanos.
// @Tags         batches
// @Security     Bearer
// @Param        id         path   string  true   "ID del silo"
// @Param        batchId    path   string  true   "ID del lote"
// @Param        permanent  query  bool    false  "Borrado permanente"  default(false)
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/silos/{id}/batches/{batchId} [delete]
func (h *BatchHandler) Remove(c *fiber.Ctx) error {
	var err error
	if c.QueryBool("permanent", false) {
		err = h.uc.DeleteBatch(c.Context(), param(c, "id"), param(c, "batchId"))
	} else {
		err = h.uc.RemoveFromSilo(c.Context(), param(c, "id"), param(c, "batchId"))
	}
	if err != nil {
		return batchError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener lote por ID (incluye despachados)
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), param(c, "id"))
	if err != nil {
		return batchError(c, err)
	}
	return c.JSON(out)
}

// batchError traduce errores de dominio a respuestas HTTP.
func batchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "silo o lote no encontrado"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "cantidad inválida"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
