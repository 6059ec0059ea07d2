package repository

import "github.com/tu-usuario/stockflow-pro/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios.
// El núcleo de aprobaciones solo necesita resolver el principal y su rol;
// GetByID devuelve (nil, nil) si el usuario no existe.
type UserRepository interface {
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
}
