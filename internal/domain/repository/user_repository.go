package repository

import "github.com/jhoicas/Clientes-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (auth).
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
}
