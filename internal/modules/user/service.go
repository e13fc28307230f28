package user

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/printa-backoffice/internal/modules/access"
	"github.com/georgemunganga/printa-backoffice/internal/platform/apperr"
)

const minPasswordLength = 8

// Authorizer is the slice of the permission engine user administration needs.
type Authorizer interface {
	Require(ctx context.Context, userID uuid.UUID, perm access.Permission, shopID uuid.UUID) error
}

// Service defines staff account management.
type Service interface {
	// RegisterUser creates a staff account. The actor needs roles.manage.
	RegisterUser(ctx context.Context, actorID uuid.UUID, req RegisterRequest) (*User, error)
	// GetUser returns the actor's own account, or any account for roles.manage holders.
	GetUser(ctx context.Context, actorID, id uuid.UUID) (*User, error)
}

type service struct {
	repo  Repository
	authz Authorizer
	cost  int
}

// NewService creates a new user service.
func NewService(repo Repository, authz Authorizer) Service {
	return &service{repo: repo, authz: authz, cost: bcrypt.DefaultCost}
}

// HashPassword hashes password with bcrypt at cost.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", apperr.ErrValidation, minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *service) RegisterUser(ctx context.Context, actorID uuid.UUID, req RegisterRequest) (*User, error) {
	if err := s.authz.Require(ctx, actorID, access.PermRolesManage, uuid.Nil); err != nil {
		return nil, err
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid email", apperr.ErrValidation)
	}
	hashed, err := HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(addr.Address),
		PasswordHash: hashed,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, actorID, id uuid.UUID) (*User, error) {
	if actorID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	if actorID != id {
		if err := s.authz.Require(ctx, actorID, access.PermRolesManage, uuid.Nil); err != nil {
			return nil, err
		}
	}
	return s.repo.GetUserByID(ctx, id)
}
