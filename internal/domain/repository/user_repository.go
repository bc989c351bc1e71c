package repository

import (
	"context"

	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	// Create persiste y asigna user.ID. domain.ErrDuplicate si username o email ya existen.
	Create(ctx context.Context, user *entity.User) error
	// GetByUsername devuelve (nil, nil) si no existe.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
