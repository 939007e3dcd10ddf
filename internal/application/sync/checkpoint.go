package sync

import (
	"fmt"
	"time"

	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

// Checkpoint calcula el límite temporal del próximo pull incremental a partir
// de la bitácora de sincronización.
type Checkpoint struct {
	logs repository.SyncLogRepository
}

// NewCheckpoint construye el lector de checkpoint sobre la bitácora.
func NewCheckpoint(logs repository.SyncLogRepository) *Checkpoint {
	return &Checkpoint{logs: logs}
}

// Last devuelve el createdAt de la entrada más reciente ("customer","sync"),
// o nil en la primera corrida (sync completo, sin filtro temporal).
func (c *Checkpoint) Last() (*time.Time, error) {
	latest, err := c.logs.LatestByEntityAndAction(entity.SyncEntityCustomer, entity.SyncActionSync)
	if err != nil {
		return nil, fmt.Errorf("leer checkpoint: %w", err)
	}
	if latest == nil {
		return nil, nil
	}
	t := latest.CreatedAt
	return &t, nil
}
