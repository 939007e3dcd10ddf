package sync

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Clientes-api/internal/domain"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
	"github.com/jhoicas/Clientes-api/pkg/logger"
)

// Contexto operativo registrado en el error log por cada candidato fallido.
const (
	syncEndpoint = "/api/shopify/customers/sync"
	syncMethod   = "POST"
)

// Summary resultado de una corrida de pull sync.
type Summary struct {
	// Processed total de candidatos de la corrida (aplicados + saltados),
	// la misma semántica de "customers synced" que reporta la bitácora.
	Processed int
	// Skipped candidatos saltados por fallas aisladas de reconciliación.
	Skipped int
}

// Orchestrator dirige el pull sync: checkpoint → paginación por cursor →
// reconciliación por candidato con aislamiento de fallas → una entrada de
// bitácora por corrida.
type Orchestrator struct {
	gateway          CustomerGateway
	reconciler       *Reconciler
	checkpoint       *Checkpoint
	syncLogs         repository.SyncLogRepository
	errors           ErrorRecorder
	log              *logger.Logger
	batchSize        int
	defaultCompanyID string

	// running evita corridas solapadas contra el mismo checkpoint.
	running atomic.Bool
}

// NewOrchestrator construye el orquestador con sus dependencias explícitas.
// batchSize <= 0 usa el máximo de Shopify (250).
func NewOrchestrator(
	gateway CustomerGateway,
	reconciler *Reconciler,
	checkpoint *Checkpoint,
	syncLogs repository.SyncLogRepository,
	errors ErrorRecorder,
	log *logger.Logger,
	batchSize int,
	defaultCompanyID string,
) *Orchestrator {
	if batchSize <= 0 {
		batchSize = 250
	}
	return &Orchestrator{
		gateway:          gateway,
		reconciler:       reconciler,
		checkpoint:       checkpoint,
		syncLogs:         syncLogs,
		errors:           errors,
		log:              log,
		batchSize:        batchSize,
		defaultCompanyID: defaultCompanyID,
	}
}

// Run ejecuta una corrida completa de pull sync.
//
// Errores de protocolo o de throttling agotado abortan la corrida entera (la
// forma de la respuesta no es confiable); las fallas de un candidato individual
// se registran en el error log y la corrida continúa con el siguiente.
// Devuelve domain.ErrSyncInProgress si ya hay una corrida en curso.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.running.Store(false)

	since, err := o.checkpoint.Last()
	if err != nil {
		return nil, err
	}

	candidates, err := o.fetchAll(ctx, since)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelación cooperativa entre páginas: entrada parcial y fin.
			_ = o.writeAudit(fmt.Sprintf("Sync cancelled after fetching %d customers.", len(candidates)))
			return &Summary{}, ctx.Err()
		}
		o.errors.Record("ERROR", err.Error(), "", syncEndpoint, syncMethod, nil)
		return nil, err
	}

	if len(candidates) == 0 {
		if err := o.writeAudit("No new or updated customers to sync."); err != nil {
			return nil, err
		}
		o.log.Info().Msg("pull sync sin candidatos")
		return &Summary{}, nil
	}

	summary := &Summary{Processed: len(candidates)}
	for i, remote := range candidates {
		if ctx.Err() != nil {
			_ = o.writeAudit(fmt.Sprintf("Synced %d of %d customers (cancelled).", i, len(candidates)))
			return summary, ctx.Err()
		}
		if _, err := o.reconciler.Reconcile(ctx, remote, o.defaultCompanyID); err != nil {
			summary.Skipped++
			o.log.Warn().Err(err).Str("shopify_id", remote.ID).Msg("candidato saltado")
			o.errors.Record(
				"ERROR",
				fmt.Sprintf("error syncing customer ID %s: %v", remote.ID, err),
				"",
				syncEndpoint,
				syncMethod,
				nil,
			)
			continue
		}
	}

	if err := o.writeAudit(fmt.Sprintf("Synced %d customers.", len(candidates))); err != nil {
		return nil, err
	}
	o.log.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Msg("pull sync finalizado")
	return summary, nil
}

// fetchAll acumula todas las páginas antes de reconciliar (pull-then-process).
// Las páginas son estrictamente secuenciales: cada cursor depende de la anterior.
func (o *Orchestrator) fetchAll(ctx context.Context, since *time.Time) ([]RemoteCustomer, error) {
	var (
		candidates []RemoteCustomer
		cursor     string
		hasMore    = true
	)
	for hasMore {
		if err := ctx.Err(); err != nil {
			return candidates, err
		}
		page, err := o.gateway.FetchPage(ctx, cursor, o.batchSize, since)
		if err != nil {
			return candidates, err
		}
		candidates = append(candidates, page.Customers...)
		hasMore = page.HasNextPage
		cursor = page.EndCursor
	}
	return candidates, nil
}

func (o *Orchestrator) writeAudit(remarks string) error {
	entry := &entity.SyncLog{
		ID:         uuid.New().String(),
		EntityType: entity.SyncEntityCustomer,
		Action:     entity.SyncActionSync,
		Remarks:    remarks,
		CreatedAt:  time.Now(),
	}
	if err := o.syncLogs.Append(entry); err != nil {
		return fmt.Errorf("escribir bitácora de sync: %w", err)
	}
	return nil
}
