package entity

import (
	"strings"
	"time"
)

// Customer representa un cliente local vinculado (opcionalmente) a un cliente de Shopify.
// ShopifyID es el segmento final del GID remoto; único cuando está presente.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	FullName  string // derivado: FirstName + " " + LastName
	Email     string
	Phone     string
	ShopifyID *string // nil = nunca propagado a Shopify
	CompanyID *string // nil = sin empresa asignada
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveFullName calcula el nombre completo para mostrar.
// Shopify no expone un campo fullName: siempre se deriva de first/last.
func DeriveFullName(firstName, lastName string) string {
	return strings.TrimSpace(firstName + " " + lastName)
}
