package entity

import "time"

// User usuario del sistema (autenticación por email + password).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
