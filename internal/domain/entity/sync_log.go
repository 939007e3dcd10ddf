package entity

import "time"

// Acciones y tipos de entidad registrados en la bitácora de sincronización.
const (
	SyncEntityCustomer = "customer"
	SyncActionSync     = "sync"
)

// SyncLog entrada append-only de la bitácora de sincronización con Shopify.
// La entrada más reciente de ("customer","sync") define el checkpoint del próximo pull.
type SyncLog struct {
	ID         string
	EntityType string
	Action     string
	Remarks    string
	CreatedAt  time.Time
}

// ErrorLog registro persistente de errores de la aplicación (sink de solo escritura).
type ErrorLog struct {
	ID         string
	Level      string
	Message    string
	StackTrace string
	Endpoint   string
	Method     string
	UserID     *string
	CreatedAt  time.Time
}
