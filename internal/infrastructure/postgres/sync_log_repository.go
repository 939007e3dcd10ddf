package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

var _ repository.SyncLogRepository = (*SyncLogRepo)(nil)

// SyncLogRepo bitácora append-only de sincronización en shopify_sync_logs.
// Sin Update ni Delete: las entradas son inmutables.
type SyncLogRepo struct {
	q Querier
}

// NewSyncLogRepository construye el adaptador de la bitácora.
func NewSyncLogRepository(q Querier) *SyncLogRepo {
	return &SyncLogRepo{q: q}
}

// Append agrega una entrada a la bitácora.
func (r *SyncLogRepo) Append(log *entity.SyncLog) error {
	query := `
		INSERT INTO shopify_sync_logs (id, entity_type, action, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		log.ID, log.EntityType, log.Action, log.Remarks, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

// LatestByEntityAndAction devuelve la entrada más reciente para (entityType, action).
func (r *SyncLogRepo) LatestByEntityAndAction(entityType, action string) (*entity.SyncLog, error) {
	query := `
		SELECT id, entity_type, action, remarks, created_at
		FROM shopify_sync_logs
		WHERE entity_type = $1 AND action = $2
		ORDER BY created_at DESC
		LIMIT 1`
	var l entity.SyncLog
	err := r.q.QueryRow(context.Background(), query, entityType, action).Scan(
		&l.ID, &l.EntityType, &l.Action, &l.Remarks, &l.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest sync log: %w", err)
	}
	return &l, nil
}
