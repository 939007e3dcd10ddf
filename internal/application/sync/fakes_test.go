package sync_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/domain"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria compartidos por los tests del paquete
// ──────────────────────────────────────────────────────────────────────────────

type memCustomerRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Customer

	// failShopifyID fuerza error en Create/Update para ese shopifyId
	// (simula una falla aislada de reconciliación).
	failShopifyID string
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{byID: map[string]*entity.Customer{}}
}

func (r *memCustomerRepo) Create(c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ShopifyID != nil && *c.ShopifyID == r.failShopifyID && r.failShopifyID != "" {
		return fmt.Errorf("falla inyectada para shopify %s", r.failShopifyID)
	}
	if c.ShopifyID != nil {
		for _, existing := range r.byID {
			if existing.ShopifyID != nil && *existing.ShopifyID == *c.ShopifyID {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCustomerRepo) GetByShopifyID(shopifyID string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.ShopifyID != nil && *c.ShopifyID == shopifyID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) List(keyword string, limit, offset int) ([]*entity.Customer, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Customer
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *memCustomerRepo) Update(c *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ShopifyID != nil && *c.ShopifyID == r.failShopifyID && r.failShopifyID != "" {
		return fmt.Errorf("falla inyectada para shopify %s", r.failShopifyID)
	}
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCustomerRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memCustomerRepo) CountByCompany(companyID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.byID {
		if c.CompanyID != nil && *c.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r *memCustomerRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type memCompanyRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Company
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{byID: map[string]*entity.Company{}}
}

func (r *memCompanyRepo) Create(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memCompanyRepo) GetByName(name string) (*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Company
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memCompanyRepo) Update(c *entity.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCompanyRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memCompanyRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type memSyncLogRepo struct {
	mu      sync.Mutex
	entries []*entity.SyncLog
}

func (r *memSyncLogRepo) Append(log *entity.SyncLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *log
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memSyncLogRepo) LatestByEntityAndAction(entityType, action string) (*entity.SyncLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.SyncLog
	for _, e := range r.entries {
		if e.EntityType != entityType || e.Action != action {
			continue
		}
		if latest == nil || e.CreatedAt.After(latest.CreatedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *memSyncLogRepo) remarks() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Remarks)
	}
	return out
}

type memErrorRecorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *memErrorRecorder) Record(level, message, stackTrace, endpoint, method string, userID *string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *memErrorRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// memTxRunner ejecuta el callback directamente sobre los repos en memoria
// (sin transacción real; la atomicidad se prueba en integración).
type memTxRunner struct {
	customers *memCustomerRepo
	companies *memCompanyRepo
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	customers repository.CustomerRepository,
	companies repository.CompanyRepository,
) error) error {
	return fn(r.customers, r.companies)
}

// fakeGateway gateway remoto programable por páginas.
type fakeGateway struct {
	mu        sync.Mutex
	pages     []appsync.Page
	fetchErr  error // devuelto al agotar las páginas (nil = página vacía)
	calls     int
	lastSince *time.Time

	// onFetch hook por llamada (permite cancelar el contexto a mitad de corrida).
	onFetch func(call int)

	// blockCh si no es nil, FetchPage espera hasta que el canal se cierre.
	blockCh chan struct{}
	started chan struct{}

	createFn func(appsync.CustomerFields) (*appsync.RemoteCustomer, error)
	updateFn func(string, appsync.CustomerFields) (*appsync.RemoteCustomer, error)
	deleteFn func(string) (string, error)
}

func (g *fakeGateway) FetchPage(ctx context.Context, cursor string, pageSize int, since *time.Time) (*appsync.Page, error) {
	g.mu.Lock()
	call := g.calls
	g.calls++
	g.lastSince = since
	g.mu.Unlock()

	if g.started != nil && call == 0 {
		close(g.started)
	}
	if g.blockCh != nil {
		<-g.blockCh
	}
	if g.onFetch != nil {
		g.onFetch(call)
	}

	if call >= len(g.pages) {
		if g.fetchErr != nil {
			return nil, g.fetchErr
		}
		return &appsync.Page{}, nil
	}
	page := g.pages[call]
	return &page, nil
}

func (g *fakeGateway) FetchByID(ctx context.Context, shopifyID string) (*appsync.RemoteCustomer, error) {
	return nil, appsync.NewProtocolError("fetchById", fmt.Errorf("no implementado en el fake"))
}

func (g *fakeGateway) Create(ctx context.Context, fields appsync.CustomerFields) (*appsync.RemoteCustomer, error) {
	if g.createFn != nil {
		return g.createFn(fields)
	}
	return &appsync.RemoteCustomer{ID: "900001"}, nil
}

func (g *fakeGateway) Update(ctx context.Context, shopifyID string, fields appsync.CustomerFields) (*appsync.RemoteCustomer, error) {
	if g.updateFn != nil {
		return g.updateFn(shopifyID, fields)
	}
	return &appsync.RemoteCustomer{ID: shopifyID}, nil
}

func (g *fakeGateway) Delete(ctx context.Context, shopifyID string) (string, error) {
	if g.deleteFn != nil {
		return g.deleteFn(shopifyID)
	}
	return shopifyID, nil
}
