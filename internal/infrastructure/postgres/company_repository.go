package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Clientes-api/internal/domain"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `id, name, email, phone, address1, address2, city, province, zip, country, created_at, updated_at`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL
// (usable con pool o tx: el resolver del sync corre dentro de transacción).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa. Devuelve domain.ErrDuplicate si el nombre
// ya existe (UNIQUE sobre name, base del find-or-create del sync).
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.Email, company.Phone,
		company.Address1, company.Address2, company.City, company.Province,
		company.Zip, company.Country, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByName obtiene una empresa por coincidencia exacta de nombre.
func (r *CompanyRepo) GetByName(name string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE name = $1 LIMIT 1`
	return r.scanOne(query, name)
}

func (r *CompanyRepo) scanOne(query string, arg any) (*entity.Company, error) {
	var c entity.Company
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address1, &c.Address2,
		&c.City, &c.Province, &c.Zip, &c.Country, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// List devuelve empresas con paginación.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address1, &c.Address2,
			&c.City, &c.Province, &c.Zip, &c.Country, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza una empresa existente.
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `
		UPDATE companies
		SET name = $2, email = $3, phone = $4, address1 = $5, address2 = $6,
		    city = $7, province = $8, zip = $9, country = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.Email, company.Phone,
		company.Address1, company.Address2, company.City, company.Province,
		company.Zip, company.Country, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// Delete elimina una empresa por ID.
func (r *CompanyRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}
