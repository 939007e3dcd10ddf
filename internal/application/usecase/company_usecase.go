package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Clientes-api/internal/application/dto"
	"github.com/jhoicas/Clientes-api/internal/domain"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
// El sync nunca borra empresas; el delete manual está protegido por el guard
// de integridad referencial sobre clientes asociados.
type CompanyUseCase struct {
	repo      repository.CompanyRepository
	customers repository.CustomerRepository
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, customers repository.CustomerRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, customers: customers}
}

// Create crea una nueva empresa. Devuelve domain.ErrDuplicate si el nombre ya existe.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByName(in.Name)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address1:  in.Address1,
		Address2:  in.Address2,
		City:      in.City,
		Province:  in.Province,
		Zip:       in.Zip,
		Country:   in.Country,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza una empresa existente.
func (uc *CompanyUseCase) Update(id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	company.Name = in.Name
	company.Email = in.Email
	company.Phone = in.Phone
	company.Address1 = in.Address1
	company.Address2 = in.Address2
	company.City = in.City
	company.Province = in.Province
	company.Zip = in.Zip
	company.Country = in.Country
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(company); err != nil {
		return nil, err
	}
	return toCompanyResponse(company), nil
}

// Delete elimina una empresa. Devuelve domain.ErrCompanyHasCustomers si tiene
// clientes asociados (error de negocio visible, no se reintenta).
func (uc *CompanyUseCase) Delete(id string) error {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	count, err := uc.customers.CountByCompany(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCompanyHasCustomers
	}
	return uc.repo.Delete(id)
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address1:  c.Address1,
		Address2:  c.Address2,
		City:      c.City,
		Province:  c.Province,
		Zip:       c.Zip,
		Country:   c.Country,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
