package sync

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Clientes-api/internal/domain"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

// CompanyResolver encuentra o crea la empresa local que corresponde a la
// dirección remota de un cliente, deduplicando por nombre exacto.
type CompanyResolver struct {
	companies repository.CompanyRepository
}

// NewCompanyResolver construye el resolver sobre el repositorio de empresas
// (puede ser el pool o uno atado a una transacción).
func NewCompanyResolver(companies repository.CompanyRepository) *CompanyResolver {
	return &CompanyResolver{companies: companies}
}

// Resolve devuelve el ID de la empresa para la dirección remota, o nil si la
// dirección no trae nombre de empresa ("sin reasignación; conservar la actual").
//
// En un hit los datos almacenados de la empresa NO se sobrescriben: una
// dirección incidental de cliente no debe pisar datos curados manualmente.
// En un miss se crea la empresa sembrando todos los campos de dirección
// (string vacío para sub-campos ausentes) más email/phone de respaldo.
func (r *CompanyResolver) Resolve(address *RemoteAddress, fallbackEmail, fallbackPhone string) (*string, error) {
	if address == nil || address.Company == "" {
		return nil, nil
	}

	existing, err := r.companies.GetByName(address.Company)
	if err != nil {
		return nil, fmt.Errorf("buscar empresa %q: %w", address.Company, err)
	}
	if existing != nil {
		return &existing.ID, nil
	}

	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      address.Company,
		Email:     fallbackEmail,
		Phone:     fallbackPhone,
		Address1:  address.Address1,
		Address2:  address.Address2,
		City:      address.City,
		Province:  address.Province,
		Zip:       address.Zip,
		Country:   address.Country,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.companies.Create(company); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Otra resolución concurrente ganó la carrera del UNIQUE(name):
			// releer y devolver la fila ganadora.
			winner, rerr := r.companies.GetByName(address.Company)
			if rerr != nil {
				return nil, fmt.Errorf("releer empresa %q tras conflicto: %w", address.Company, rerr)
			}
			if winner != nil {
				return &winner.ID, nil
			}
		}
		return nil, fmt.Errorf("crear empresa %q: %w", address.Company, err)
	}
	return &company.ID, nil
}
