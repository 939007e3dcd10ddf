package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Clientes-api/internal/application/dto"
	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/domain"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD de clientes con propagación push a Shopify:
// cada mutación local se refleja en el remoto dentro de la misma operación.
type CustomerUseCase struct {
	repo      repository.CustomerRepository
	companies repository.CompanyRepository
	push      *appsync.PushGateway
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	companies repository.CompanyRepository,
	push *appsync.PushGateway,
) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, companies: companies, push: push}
}

// Create crea un cliente. Si no trae shopifyId preasignado, primero lo crea en
// Shopify y persiste el ID remoto devuelto como parte del mismo create local.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.FirstName == "" && in.LastName == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		FullName:  fullNameOrDerived(in.FullName, in.FirstName, in.LastName),
		Email:     in.Email,
		Phone:     in.Phone,
		CompanyID: in.CompanyID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.ShopifyID != "" {
		shopifyID := in.ShopifyID
		customer.ShopifyID = &shopifyID
	}

	// Remoto primero: el create local persiste el shopifyId devuelto.
	if err := uc.push.OnCreate(ctx, customer); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return uc.toResponse(customer), nil
}

// GetByID obtiene un cliente con su empresa asociada.
func (uc *CustomerUseCase) GetByID(id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(customer), nil
}

// List lista clientes con filtro opcional por keyword y paginación.
func (uc *CustomerUseCase) List(keyword string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(keyword, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *uc.toResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update actualiza un cliente. Si ya estaba vinculado a Shopify, el update
// remoto debe completarse antes de la escritura local (falla dura si no).
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	existing, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	previousShopifyID := existing.ShopifyID
	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.FullName = fullNameOrDerived(in.FullName, in.FirstName, in.LastName)
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.CompanyID = in.CompanyID
	existing.UpdatedAt = time.Now()

	if err := uc.push.OnUpdate(ctx, existing, previousShopifyID); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(existing); err != nil {
		return nil, err
	}
	return uc.toResponse(existing), nil
}

// Delete elimina un cliente. Si está vinculado a Shopify, el delete remoto
// debe confirmarse primero: si falla, el registro local queda intacto.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	existing, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := uc.push.OnDelete(ctx, existing); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

func (uc *CustomerUseCase) toResponse(c *entity.Customer) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName,
		Email:     c.Email,
		Phone:     c.Phone,
		ShopifyID: c.ShopifyID,
		CompanyID: c.CompanyID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.CompanyID != nil {
		if company, err := uc.companies.GetByID(*c.CompanyID); err == nil && company != nil {
			resp.Company = toCompanyResponse(company)
		}
	}
	return resp
}

func fullNameOrDerived(fullName, firstName, lastName string) string {
	if fullName != "" {
		return fullName
	}
	return entity.DeriveFullName(firstName, lastName)
}
