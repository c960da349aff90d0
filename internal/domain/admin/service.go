package admin

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yosef-agil/thirtys-api/internal/pkg/jwt"
	"github.com/yosef-agil/thirtys-api/internal/pkg/password"
)

type repository interface {
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Admin, error)
}

type Service struct {
	repo repository
	jwt  *jwt.Service
}

func NewService(repo *Repository, jwtService *jwt.Service) *Service {
	return &Service{repo: repo, jwt: jwtService}
}

// Login verifies credentials and issues an access token. Unknown usernames
// and wrong passwords produce the same error so the endpoint doesn't leak
// which usernames exist.
func (s *Service) Login(ctx context.Context, username, plainPassword string) (string, *Admin, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrAdminNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !password.Verify(plainPassword, a.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(a.ID, a.Username)
	if err != nil {
		return "", nil, err
	}
	return token, a, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}
