package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/agrofum/silos-api/internal/application/dto"
	"github.com/agrofum/silos-api/internal/application/history"
	"github.com/agrofum/silos-api/internal/domain"
)

// HistoryHandler maneja las consultas del historial (protegido, solo lectura).
type HistoryHandler struct {
	uc *history.UseCase
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *history.UseCase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// Feed godoc
// @Summary      Feed cronológico unificado de eventos
// @Description  Entradas, movimientos, correcciones de cantidad y tratamientos
//               de todos los lotes, mezclados y ordenados por fecha descendente.
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Param        silo        query  int     false  "Número de silo"
// @Param        batch_id    query  string  false  "ID de lote"
// @Param        grain_type  query  string  false  "Tipo de grano"
// @Param        q           query  string  false  "Búsqueda libre (grano, origen, IDs)"
// @Param        limit       query  int     false  "Máximo de eventos"
// @Success      200  {object}  dto.HistoryResponse
// @Router       /api/history [get]
func (h *HistoryHandler) Feed(c *fiber.Ctx) error {
	filter := dto.HistoryFilter{
		SiloNumber: c.QueryInt("silo", 0),
		BatchID:    c.Query("batch_id"),
		GrainType:  c.Query("grain_type"),
		Query:      c.Query("q"),
		Limit:      c.QueryInt("limit", 0),
	}
	out, err := h.uc.Feed(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// BatchHistory godoc
// @Summary      Historial completo de un lote
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/history [get]
func (h *HistoryHandler) BatchHistory(c *fiber.Ctx) error {
	out, err := h.uc.BatchHistory(c.Context(), param(c, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
