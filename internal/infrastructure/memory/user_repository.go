package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/sales-dashboard-api/internal/domain"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// Create asigna ID; ErrDuplicate si username o email ya existen.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	cp := *user
	cp.Roles = slices.Clone(user.Roles)
	r.s.users[cp.ID] = &cp
	return nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			cp.Roles = slices.Clone(u.Roles)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	return r.any(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return r.any(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

func (r *UserRepo) any(match func(*entity.User) bool) bool {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			return true
		}
	}
	return false
}
