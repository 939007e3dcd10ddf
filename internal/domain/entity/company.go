package entity

import "time"

// Company representa una empresa local. El nombre es la identidad natural:
// el sync deduplica empresas por coincidencia exacta de Name (UNIQUE en DB).
type Company struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address1  string
	Address2  string
	City      string
	Province  string
	Zip       string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
