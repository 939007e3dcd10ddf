package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Clientes-api/internal/application/dto"
	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/domain"
)

// SyncHandler dispara el pull sync de clientes desde Shopify.
type SyncHandler struct {
	orchestrator *appsync.Orchestrator
}

// NewSyncHandler construye el handler de sync.
func NewSyncHandler(orchestrator *appsync.Orchestrator) *SyncHandler {
	return &SyncHandler{orchestrator: orchestrator}
}

// Sync godoc
// @Summary      Sincronizar clientes desde Shopify
// @Description  Corrida incremental: checkpoint → paginación por cursor → upsert idempotente.
// @Tags         shopify
// @Produce      json
// @Success      200  {object}  dto.SyncResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/shopify/customers/sync [post]
func (h *SyncHandler) Sync(c *fiber.Ctx) error {
	summary, err := h.orchestrator.Run(c.UserContext())
	if err != nil {
		if err == domain.ErrSyncInProgress {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_IN_PROGRESS", Message: "sincronización ya en curso"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SYNC_FAILED", Message: err.Error()})
	}
	return c.JSON(dto.SyncResponse{
		Message: fmt.Sprintf("Synced %d customers.", summary.Processed),
		Count:   summary.Processed,
		Skipped: summary.Skipped,
	})
}
