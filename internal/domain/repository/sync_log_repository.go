package repository

import "github.com/jhoicas/Clientes-api/internal/domain/entity"

// SyncLogRepository bitácora append-only de corridas de sincronización.
// Las entradas nunca se actualizan ni se borran.
type SyncLogRepository interface {
	Append(log *entity.SyncLog) error
	// LatestByEntityAndAction devuelve la entrada más reciente para (entityType, action),
	// o (nil, nil) si no hay ninguna (primera corrida).
	LatestByEntityAndAction(entityType, action string) (*entity.SyncLog, error)
}

// ErrorLogRepository sink de solo escritura para errores persistidos.
type ErrorLogRepository interface {
	Create(log *entity.ErrorLog) error
}
