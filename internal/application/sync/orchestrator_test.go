package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/domain"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type syncFixture struct {
	gateway   *fakeGateway
	customers *memCustomerRepo
	companies *memCompanyRepo
	syncLogs  *memSyncLogRepo
	errors    *memErrorRecorder
}

func newOrchestrator(t *testing.T, fx *syncFixture, defaultCompanyID string) *appsync.Orchestrator {
	t.Helper()
	tx := &memTxRunner{customers: fx.customers, companies: fx.companies}
	return appsync.NewOrchestrator(
		fx.gateway,
		appsync.NewReconciler(tx),
		appsync.NewCheckpoint(fx.syncLogs),
		fx.syncLogs,
		fx.errors,
		logger.Nop(),
		250,
		defaultCompanyID,
	)
}

func newFixture(pages ...appsync.Page) *syncFixture {
	return &syncFixture{
		gateway:   &fakeGateway{pages: pages},
		customers: newMemCustomerRepo(),
		companies: newMemCompanyRepo(),
		syncLogs:  &memSyncLogRepo{},
		errors:    &memErrorRecorder{},
	}
}

func remoteCustomer(id, first, last, email string) appsync.RemoteCustomer {
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return appsync.RemoteCustomer{
		ID:        id,
		Email:     email,
		FirstName: first,
		LastName:  last,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Orchestrator.Run
// ──────────────────────────────────────────────────────────────────────────────

// Corrida sin candidatos: una sola entrada de bitácora con el texto canónico.
func TestOrchestrator_SinCandidatos_EscribeBitacora(t *testing.T) {
	fx := newFixture(appsync.Page{})
	orch := newOrchestrator(t, fx, "")

	summary, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	require.Len(t, fx.syncLogs.remarks(), 1, "debe haber exactamente una entrada de bitácora")
	assert.Equal(t, "No new or updated customers to sync.", fx.syncLogs.remarks()[0])
}

// Paginación multi-página: todos los candidatos se aplican y la bitácora
// registra el total de la corrida en una sola entrada.
func TestOrchestrator_MultiplesPaginas_AplicaTodos(t *testing.T) {
	fx := newFixture(
		appsync.Page{
			Customers: []appsync.RemoteCustomer{
				remoteCustomer("101", "Ana", "García", "ana@example.com"),
				remoteCustomer("102", "Luis", "Pérez", "luis@example.com"),
			},
			EndCursor:   "cursor-1",
			HasNextPage: true,
		},
		appsync.Page{
			Customers: []appsync.RemoteCustomer{
				remoteCustomer("103", "Marta", "Ruiz", "marta@example.com"),
			},
		},
	)
	orch := newOrchestrator(t, fx, "")

	summary, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 3, fx.customers.count())
	require.Len(t, fx.syncLogs.remarks(), 1)
	assert.Equal(t, "Synced 3 customers.", fx.syncLogs.remarks()[0])

	created, err := fx.customers.GetByShopifyID("101")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Ana García", created.FullName)
}

// Aislamiento de fallas: un candidato que falla se salta y registra en el
// error log; los demás se aplican y la corrida termina con su bitácora.
func TestOrchestrator_FallaAislada_ContinuaYRegistra(t *testing.T) {
	fx := newFixture(appsync.Page{
		Customers: []appsync.RemoteCustomer{
			remoteCustomer("201", "Ana", "García", "ana@example.com"),
			remoteCustomer("202", "Luis", "Pérez", "luis@example.com"),
			remoteCustomer("203", "Marta", "Ruiz", "marta@example.com"),
		},
	})
	fx.customers.failShopifyID = "202"
	orch := newOrchestrator(t, fx, "")

	summary, err := orch.Run(context.Background())
	require.NoError(t, err, "una falla aislada no debe abortar la corrida")

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, fx.customers.count())

	recorded := fx.errors.recorded()
	require.Len(t, recorded, 1)
	assert.Contains(t, recorded[0], "error syncing customer ID 202")

	require.Len(t, fx.syncLogs.remarks(), 1)
	assert.Equal(t, "Synced 3 customers.", fx.syncLogs.remarks()[0])
}

// Un error de protocolo del gateway aborta la corrida completa: sin bitácora
// de éxito y con el error persistido en el sink.
func TestOrchestrator_ErrorDeProtocolo_AbortaCorrida(t *testing.T) {
	fx := newFixture()
	fx.gateway.pages = nil
	fx.gateway.fetchErr = appsync.NewProtocolError("fetchPage", assert.AnError)
	orch := newOrchestrator(t, fx, "")

	_, err := orch.Run(context.Background())
	require.Error(t, err)

	var gwErr *appsync.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, appsync.KindProtocol, gwErr.Kind)

	assert.Empty(t, fx.syncLogs.remarks(), "una corrida abortada no escribe bitácora de éxito")
	assert.Len(t, fx.errors.recorded(), 1)
	assert.Equal(t, 0, fx.customers.count())
}

// Guard single-flight: una segunda corrida mientras la primera está en curso
// devuelve ErrSyncInProgress sin tocar nada.
func TestOrchestrator_CorridasSolapadas_SegundaRechazada(t *testing.T) {
	fx := newFixture(appsync.Page{})
	fx.gateway.blockCh = make(chan struct{})
	fx.gateway.started = make(chan struct{})
	orch := newOrchestrator(t, fx, "")

	done := make(chan error, 1)
	go func() {
		_, err := orch.Run(context.Background())
		done <- err
	}()

	<-fx.gateway.started
	_, err := orch.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)

	close(fx.gateway.blockCh)
	require.NoError(t, <-done)

	// Liberado el guard, una corrida nueva vuelve a ser posible.
	fx.gateway.blockCh = nil
	_, err = orch.Run(context.Background())
	assert.NoError(t, err)
}

// Cancelación cooperativa entre páginas: la corrida termina con una entrada
// parcial de bitácora y devuelve el error del contexto.
func TestOrchestrator_CancelacionEntrePaginas_BitacoraParcial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fx := newFixture(
		appsync.Page{
			Customers: []appsync.RemoteCustomer{
				remoteCustomer("301", "Ana", "García", "ana@example.com"),
				remoteCustomer("302", "Luis", "Pérez", "luis@example.com"),
			},
			EndCursor:   "cursor-1",
			HasNextPage: true,
		},
	)
	fx.gateway.onFetch = func(call int) {
		if call == 0 {
			cancel()
		}
	}
	orch := newOrchestrator(t, fx, "")

	_, err := orch.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	remarks := fx.syncLogs.remarks()
	require.Len(t, remarks, 1)
	assert.Equal(t, "Sync cancelled after fetching 2 customers.", remarks[0])
	assert.Equal(t, 0, fx.customers.count(), "nada se reconcilia tras la cancelación")
}

// El checkpoint de la corrida anterior se propaga al gateway como filtro since.
func TestOrchestrator_SegundaCorrida_UsaCheckpoint(t *testing.T) {
	fx := newFixture(appsync.Page{})
	checkpointAt := time.Date(2024, 3, 9, 8, 30, 0, 0, time.UTC)
	require.NoError(t, fx.syncLogs.Append(&entity.SyncLog{
		ID:         "seed",
		EntityType: entity.SyncEntityCustomer,
		Action:     entity.SyncActionSync,
		Remarks:    "Synced 5 customers.",
		CreatedAt:  checkpointAt,
	}))
	orch := newOrchestrator(t, fx, "")

	_, err := orch.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, fx.gateway.lastSince, "la segunda corrida debe ser incremental")
	assert.True(t, fx.gateway.lastSince.Equal(checkpointAt))
}

// Primera corrida: sin checkpoint, el fetch va sin filtro temporal.
func TestOrchestrator_PrimeraCorrida_SinFiltro(t *testing.T) {
	fx := newFixture(appsync.Page{})
	orch := newOrchestrator(t, fx, "")

	_, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, fx.gateway.lastSince)
}

// Idempotencia: la misma corrida aplicada dos veces no duplica clientes.
func TestOrchestrator_CorridaRepetida_EsIdempotente(t *testing.T) {
	page := appsync.Page{
		Customers: []appsync.RemoteCustomer{
			remoteCustomer("401", "Ana", "García", "ana@example.com"),
		},
	}
	fx := newFixture(page, page)
	orch := newOrchestrator(t, fx, "")

	_, err := orch.Run(context.Background())
	require.NoError(t, err)

	// El fake entrega la misma página en la segunda corrida.
	_, err = orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fx.customers.count(), "upsert por shopifyId: sin duplicados")
}
