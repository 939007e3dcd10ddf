package dto

import "time"

// CreateCustomerRequest entrada para crear un cliente. ShopifyID vacío dispara
// la creación remota en Shopify antes del create local.
type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=100"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone"`
	ShopifyID string  `json:"shopifyId"`
	CompanyID *string `json:"companyId"`
}

// UpdateCustomerRequest entrada para actualizar un cliente.
type UpdateCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=100"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone"`
	CompanyID *string `json:"companyId"`
}

// CustomerResponse salida de un cliente, con su empresa si está asignada.
type CustomerResponse struct {
	ID        string           `json:"id"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	FullName  string           `json:"full_name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	ShopifyID *string          `json:"shopifyId"`
	CompanyID *string          `json:"companyId"`
	Company   *CompanyResponse `json:"company,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
