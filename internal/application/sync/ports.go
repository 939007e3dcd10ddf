package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

// RemoteAddress sub-registro defaultAddress de un cliente de Shopify.
// Campos ausentes llegan como string vacío, nunca null.
type RemoteAddress struct {
	Address1 string
	Address2 string
	City     string
	Company  string
	Country  string
	Province string
	Zip      string
	Phone    string
}

// RemoteCustomer registro transitorio traído de (o enviado a) Shopify.
// ID ya viene normalizado al segmento final del GID; vive solo durante
// una página de sync o una llamada de push, nunca se cachea.
type RemoteCustomer struct {
	ID             string
	Email          string
	FirstName      string
	LastName       string
	Phone          string
	DefaultAddress *RemoteAddress
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Page una página de clientes remotos con su cursor de continuación.
type Page struct {
	Customers   []RemoteCustomer
	EndCursor   string
	HasNextPage bool
}

// CustomerFields campos enviados a Shopify en create/update.
// CompanyID no nulo hace que el gateway adjunte el payload de dirección
// construido desde la empresa almacenada.
type CustomerFields struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	CompanyID *string
}

// CustomerGateway puerto de salida hacia el Admin API de Shopify.
// Todos los IDs que entran y salen son el segmento opaco final del GID;
// la traducción a/desde la forma compuesta vive dentro del gateway.
type CustomerGateway interface {
	// FetchPage trae una página de clientes. since no nulo restringe a los
	// actualizados estrictamente después de ese instante.
	FetchPage(ctx context.Context, cursor string, pageSize int, since *time.Time) (*Page, error)
	FetchByID(ctx context.Context, shopifyID string) (*RemoteCustomer, error)
	Create(ctx context.Context, fields CustomerFields) (*RemoteCustomer, error)
	Update(ctx context.Context, shopifyID string, fields CustomerFields) (*RemoteCustomer, error)
	// Delete devuelve el ID remoto confirmado por Shopify.
	Delete(ctx context.Context, shopifyID string) (string, error)
}

// ErrorRecorder puerto al sink de errores persistidos (fire-and-forget:
// la implementación nunca propaga sus propias fallas).
type ErrorRecorder interface {
	Record(level, message, stackTrace, endpoint, method string, userID *string)
}

// TxRunner ejecuta fn con repositorios atados a una transacción del store.
// El reconciler lo usa para que cada candidato se aplique atómicamente y la
// unicidad de shopify_id se resuelva en la DB, no con locks de aplicación.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		customers repository.CustomerRepository,
		companies repository.CompanyRepository,
	) error) error
}

// ── Errores tipados del gateway ───────────────────────────────────────────────

// ErrorKind clasifica las fallas del gateway para decidir abortar vs saltar
// sin inspeccionar strings.
type ErrorKind string

const (
	// KindProtocol respuesta remota con forma inesperada o transporte roto:
	// aborta la corrida completa (ningún registro de esa respuesta es confiable).
	KindProtocol ErrorKind = "PROTOCOL"
	// KindRateLimit throttling remoto agotados los reintentos.
	KindRateLimit ErrorKind = "RATE_LIMIT"
	// KindRemote error de negocio reportado por Shopify (userErrors).
	KindRemote ErrorKind = "REMOTE"
)

// GatewayError error tipado del puerto remoto.
type GatewayError struct {
	Kind ErrorKind
	Op   string // operación del gateway: "fetchPage", "customerCreate", ...
	Err  error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("shopify %s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// NewProtocolError construye un GatewayError de protocolo.
func NewProtocolError(op string, err error) *GatewayError {
	return &GatewayError{Kind: KindProtocol, Op: op, Err: err}
}

// NewRateLimitError construye un GatewayError de throttling.
func NewRateLimitError(op string, err error) *GatewayError {
	return &GatewayError{Kind: KindRateLimit, Op: op, Err: err}
}

// NewRemoteError construye un GatewayError de negocio remoto.
func NewRemoteError(op string, err error) *GatewayError {
	return &GatewayError{Kind: KindRemote, Op: op, Err: err}
}
