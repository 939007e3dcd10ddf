package repository

import "github.com/jhoicas/Clientes-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
// La implementación vive en infrastructure.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	// GetByShopifyID busca por el identificador remoto (segmento final del GID).
	// Devuelve (nil, nil) si no existe.
	GetByShopifyID(shopifyID string) (*entity.Customer, error)
	// List lista clientes con filtro opcional por keyword (nombre, email, shopifyId)
	// y paginación. keyword vacío = sin filtro.
	List(keyword string, limit, offset int) ([]*entity.Customer, int, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
	// CountByCompany cuenta los clientes asociados a una empresa (guard de integridad).
	CountByCompany(companyID string) (int, error)
}
