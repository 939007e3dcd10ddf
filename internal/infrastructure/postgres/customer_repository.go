package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Clientes-api/internal/domain"
	"github.com/jhoicas/Clientes-api/internal/domain/entity"
	"github.com/jhoicas/Clientes-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, first_name, last_name, full_name, email, phone, shopify_id, company_id, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente. Devuelve domain.ErrDuplicate si el
// shopify_id ya existe (UNIQUE sobre valores no nulos).
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.FirstName, customer.LastName, customer.FullName,
		customer.Email, customer.Phone, customer.ShopifyID, customer.CompanyID,
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByShopifyID obtiene un cliente por su identificador remoto.
func (r *CustomerRepo) GetByShopifyID(shopifyID string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE shopify_id = $1`
	return r.scanOne(query, shopifyID)
}

func (r *CustomerRepo) scanOne(query string, arg any) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.FullName, &c.Email, &c.Phone,
		&c.ShopifyID, &c.CompanyID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// List lista clientes con filtro opcional por keyword sobre nombres, email y
// shopify_id (ILIKE), más el total sin paginar.
func (r *CustomerRepo) List(keyword string, limit, offset int) ([]*entity.Customer, int, error) {
	where := ""
	args := []any{}
	if keyword != "" {
		where = `
		WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR full_name ILIKE $1
		   OR email ILIKE $1 OR shopify_id ILIKE $1`
		args = append(args, "%"+keyword+"%")
	}

	var total int
	countQuery := `SELECT count(*) FROM customers` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	query := fmt.Sprintf(`SELECT `+customerColumns+` FROM customers%s ORDER BY full_name LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.FullName, &c.Email, &c.Phone,
			&c.ShopifyID, &c.CompanyID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, total, rows.Err()
}

// Update actualiza un cliente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET first_name = $2, last_name = $3, full_name = $4, email = $5, phone = $6,
		    shopify_id = $7, company_id = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.FirstName, customer.LastName, customer.FullName,
		customer.Email, customer.Phone, customer.ShopifyID, customer.CompanyID,
		customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete elimina un cliente por ID.
func (r *CustomerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// CountByCompany cuenta los clientes asociados a una empresa.
func (r *CustomerRepo) CountByCompany(companyID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM customers WHERE company_id = $1`, companyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count customers by company: %w", err)
	}
	return n, nil
}
