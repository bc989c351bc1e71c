package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/sales-dashboard-api/internal/application/dto"
	"github.com/jhoicas/sales-dashboard-api/internal/domain"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/entity"
	"github.com/jhoicas/sales-dashboard-api/internal/domain/repository"
	"github.com/jhoicas/sales-dashboard-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Mensajes del contrato de registro.
const (
	MsgUsernameTaken = "Error: Username is already taken!"
	MsgEmailInUse    = "Error: Email is already in use!"
	MsgRegistered    = "User registered successfully!"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, now: time.Now}
}

// SignUp registra un usuario con ROLE_USER. Username o email repetidos devuelven un ValidationError.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignupRequest) (*dto.MessageResponse, error) {
	taken, err := uc.userRepo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if taken {
		return nil, domain.Invalid("username", MsgUsernameTaken)
	}
	inUse, err := uc.userRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if inUse {
		return nil, domain.Invalid("email", MsgEmailInUse)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        []string{entity.RoleUser},
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		// carrera entre el chequeo y el insert
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Invalid("username", MsgUsernameTaken)
		}
		return nil, fmt.Errorf("signup: %w", err)
	}
	return &dto.MessageResponse{Message: MsgRegistered}, nil
}

// SignIn verifica username/password y emite el JWT con los roles del usuario.
// Usuario inexistente y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) SignIn(ctx context.Context, in dto.SigninRequest) (*dto.JwtResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("signin: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Roles, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("signin: token: %w", err)
	}
	return &dto.JwtResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.Roles,
	}, nil
}

// HashPassword genera el hash bcrypt usado al persistir usuarios.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
