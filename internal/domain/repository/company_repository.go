package repository

import "github.com/jhoicas/Clientes-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	// GetByName busca por coincidencia exacta de nombre (identidad natural del dedup).
	// Devuelve (nil, nil) si no existe.
	GetByName(name string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
	Update(company *entity.Company) error
	Delete(id string) error
}
