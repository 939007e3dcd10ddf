package shopify

import "time"

// Formas de cable del Admin API GraphQL. Los IDs llegan como GID compuesto
// ("gid://shopify/Customer/123"); la normalización al segmento final ocurre
// al mapear hacia los tipos de la aplicación.

type addressNode struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Company  string `json:"company"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
}

type customerNode struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	FirstName      string       `json:"firstName"`
	LastName       string       `json:"lastName"`
	Phone          string       `json:"phone"`
	DefaultAddress *addressNode `json:"defaultAddress"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

type pageInfoNode struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type customerEdge struct {
	Node customerNode `json:"node"`
}

// customersEnvelope respuesta de la query paginada de clientes.
// Punteros para distinguir "clave ausente" (error de protocolo) de vacío.
type customersEnvelope struct {
	Customers *struct {
		Edges    []customerEdge `json:"edges"`
		PageInfo *pageInfoNode  `json:"pageInfo"`
	} `json:"customers"`
}

type customerEnvelope struct {
	Customer *customerNode `json:"customer"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type customerCreateEnvelope struct {
	CustomerCreate *struct {
		Customer   *customerNode `json:"customer"`
		UserErrors []userError   `json:"userErrors"`
	} `json:"customerCreate"`
}

type customerUpdateEnvelope struct {
	CustomerUpdate *struct {
		Customer   *customerNode `json:"customer"`
		UserErrors []userError   `json:"userErrors"`
	} `json:"customerUpdate"`
}

type customerDeleteEnvelope struct {
	CustomerDelete *struct {
		DeletedCustomerID string      `json:"deletedCustomerId"`
		UserErrors        []userError `json:"userErrors"`
	} `json:"customerDelete"`
}
