package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

// Asegura que CustomerGateway implementa el puerto de la aplicación.
var _ appsync.CustomerGateway = (*CustomerGateway)(nil)

const customerFieldsFragment = `
			id
			email
			firstName
			lastName
			phone
			defaultAddress {
				address1
				address2
				city
				company
				country
				phone
				province
				zip
			}
			createdAt
			updatedAt`

const queryCustomersPage = `
	query ($first: Int!, $after: String, $query: String) {
		customers(first: $first, after: $after, query: $query) {
			edges {
				node {` + customerFieldsFragment + `
				}
			}
			pageInfo {
				hasNextPage
				endCursor
			}
		}
	}`

const queryCustomerByID = `
	query ($id: ID!) {
		customer(id: $id) {` + customerFieldsFragment + `
		}
	}`

const mutationCustomerCreate = `
	mutation customerCreate($input: CustomerInput!) {
		customerCreate(input: $input) {
			customer {` + customerFieldsFragment + `
			}
			userErrors {
				field
				message
			}
		}
	}`

const mutationCustomerUpdate = `
	mutation customerUpdate($input: CustomerInput!) {
		customerUpdate(input: $input) {
			customer {` + customerFieldsFragment + `
			}
			userErrors {
				field
				message
			}
		}
	}`

const mutationCustomerDelete = `
	mutation customerDelete($id: ID!) {
		customerDelete(input: {id: $id}) {
			deletedCustomerId
			userErrors {
				field
				message
			}
		}
	}`

var errUnexpectedShape = errors.New("estructura de respuesta inesperada")

// CustomerGateway adaptador del puerto CustomerGateway sobre el Admin API.
// Es la única frontera de traducción entre el GID compuesto de Shopify y el
// ID opaco local: todo lo que sale está normalizado al segmento final, todo
// lo que entra se recalifica a la forma compuesta.
type CustomerGateway struct {
	client    *Client
	companies repository.CompanyRepository
}

// NewCustomerGateway construye el adaptador. El repositorio de empresas se usa
// para armar el payload de dirección en create/update cuando el cliente trae
// empresa asignada.
func NewCustomerGateway(client *Client, companies repository.CompanyRepository) *CustomerGateway {
	return &CustomerGateway{client: client, companies: companies}
}

// FetchPage trae una página de clientes; since restringe en el servidor a los
// actualizados estrictamente después de ese instante.
func (g *CustomerGateway) FetchPage(ctx context.Context, cursor string, pageSize int, since *time.Time) (*appsync.Page, error) {
	variables := map[string]any{"first": pageSize}
	if cursor != "" {
		variables["after"] = cursor
	}
	if since != nil {
		variables["query"] = fmt.Sprintf("updated_at:>'%s'", since.UTC().Format(time.RFC3339))
	}

	var env customersEnvelope
	if err := g.client.Do(ctx, "fetchPage", queryCustomersPage, variables, &env); err != nil {
		return nil, err
	}
	if env.Customers == nil || env.Customers.PageInfo == nil {
		return nil, appsync.NewProtocolError("fetchPage", errUnexpectedShape)
	}

	page := &appsync.Page{
		HasNextPage: env.Customers.PageInfo.HasNextPage,
		EndCursor:   env.Customers.PageInfo.EndCursor,
	}
	for _, edge := range env.Customers.Edges {
		page.Customers = append(page.Customers, toRemoteCustomer(edge.Node))
	}
	return page, nil
}

// FetchByID trae un cliente remoto por su ID opaco.
func (g *CustomerGateway) FetchByID(ctx context.Context, shopifyID string) (*appsync.RemoteCustomer, error) {
	variables := map[string]any{"id": customerGID(shopifyID)}
	var env customerEnvelope
	if err := g.client.Do(ctx, "fetchById", queryCustomerByID, variables, &env); err != nil {
		return nil, err
	}
	if env.Customer == nil {
		return nil, appsync.NewProtocolError("fetchById", errUnexpectedShape)
	}
	remote := toRemoteCustomer(*env.Customer)
	return &remote, nil
}

// Create crea el cliente en Shopify y devuelve el registro con ID normalizado.
func (g *CustomerGateway) Create(ctx context.Context, fields appsync.CustomerFields) (*appsync.RemoteCustomer, error) {
	input, err := g.buildInput(fields)
	if err != nil {
		return nil, err
	}

	var env customerCreateEnvelope
	if err := g.client.Do(ctx, "customerCreate", mutationCustomerCreate, map[string]any{"input": input}, &env); err != nil {
		return nil, err
	}
	if env.CustomerCreate == nil {
		return nil, appsync.NewProtocolError("customerCreate", errUnexpectedShape)
	}
	if err := checkUserErrors("customerCreate", env.CustomerCreate.UserErrors); err != nil {
		return nil, err
	}
	if env.CustomerCreate.Customer == nil {
		return nil, appsync.NewProtocolError("customerCreate", errUnexpectedShape)
	}
	remote := toRemoteCustomer(*env.CustomerCreate.Customer)
	return &remote, nil
}

// Update actualiza el cliente remoto identificado por su ID opaco.
func (g *CustomerGateway) Update(ctx context.Context, shopifyID string, fields appsync.CustomerFields) (*appsync.RemoteCustomer, error) {
	input, err := g.buildInput(fields)
	if err != nil {
		return nil, err
	}
	input["id"] = customerGID(shopifyID)

	var env customerUpdateEnvelope
	if err := g.client.Do(ctx, "customerUpdate", mutationCustomerUpdate, map[string]any{"input": input}, &env); err != nil {
		return nil, err
	}
	if env.CustomerUpdate == nil {
		return nil, appsync.NewProtocolError("customerUpdate", errUnexpectedShape)
	}
	if err := checkUserErrors("customerUpdate", env.CustomerUpdate.UserErrors); err != nil {
		return nil, err
	}
	if env.CustomerUpdate.Customer == nil {
		return nil, appsync.NewProtocolError("customerUpdate", errUnexpectedShape)
	}
	remote := toRemoteCustomer(*env.CustomerUpdate.Customer)
	return &remote, nil
}

// Delete borra el cliente remoto y devuelve el ID confirmado por Shopify.
// Una respuesta sin deletedCustomerId es un error: el delete local no debe proceder.
func (g *CustomerGateway) Delete(ctx context.Context, shopifyID string) (string, error) {
	variables := map[string]any{"id": customerGID(shopifyID)}
	var env customerDeleteEnvelope
	if err := g.client.Do(ctx, "customerDelete", mutationCustomerDelete, variables, &env); err != nil {
		return "", err
	}
	if env.CustomerDelete == nil {
		return "", appsync.NewProtocolError("customerDelete", errUnexpectedShape)
	}
	if err := checkUserErrors("customerDelete", env.CustomerDelete.UserErrors); err != nil {
		return "", err
	}
	if env.CustomerDelete.DeletedCustomerID == "" {
		return "", appsync.NewProtocolError("customerDelete", errors.New("respuesta sin deletedCustomerId"))
	}
	return trailingSegment(env.CustomerDelete.DeletedCustomerID), nil
}

// buildInput arma el CustomerInput. Si el cliente trae empresa, adjunta el
// payload de dirección resuelto desde la empresa almacenada; los campos
// ausentes van como string vacío (el esquema remoto no admite null).
func (g *CustomerGateway) buildInput(fields appsync.CustomerFields) (map[string]any, error) {
	input := map[string]any{
		"email":     fields.Email,
		"firstName": fields.FirstName,
		"lastName":  fields.LastName,
		"phone":     fields.Phone,
	}
	if fields.CompanyID == nil || *fields.CompanyID == "" {
		return input, nil
	}

	company, err := g.companies.GetByID(*fields.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("resolver empresa %s: %w", *fields.CompanyID, err)
	}
	if company == nil {
		return input, nil
	}
	input["addresses"] = map[string]any{
		"address1":  company.Address1,
		"address2":  company.Address2,
		"city":      company.City,
		"company":   company.Name,
		"country":   company.Country,
		"firstName": fields.FirstName,
		"lastName":  fields.LastName,
		"phone":     company.Phone,
		"province":  company.Province,
		"zip":       company.Zip,
	}
	return input, nil
}

func checkUserErrors(op string, errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return appsync.NewRemoteError(op, errors.New(strings.Join(msgs, "; ")))
}

func toRemoteCustomer(node customerNode) appsync.RemoteCustomer {
	remote := appsync.RemoteCustomer{
		ID:        trailingSegment(node.ID),
		Email:     node.Email,
		FirstName: node.FirstName,
		LastName:  node.LastName,
		Phone:     node.Phone,
		CreatedAt: node.CreatedAt,
		UpdatedAt: node.UpdatedAt,
	}
	if node.DefaultAddress != nil {
		remote.DefaultAddress = &appsync.RemoteAddress{
			Address1: node.DefaultAddress.Address1,
			Address2: node.DefaultAddress.Address2,
			City:     node.DefaultAddress.City,
			Company:  node.DefaultAddress.Company,
			Country:  node.DefaultAddress.Country,
			Province: node.DefaultAddress.Province,
			Zip:      node.DefaultAddress.Zip,
			Phone:    node.DefaultAddress.Phone,
		}
	}
	return remote
}

// customerGID recalifica un ID opaco a la forma compuesta que exige el API.
func customerGID(id string) string {
	return "gid://shopify/Customer/" + id
}

// trailingSegment extrae el segmento final de un GID compuesto.
func trailingSegment(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
