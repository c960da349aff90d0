package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yosef-agil/thirtys-api/internal/pkg/jwt"
	"github.com/yosef-agil/thirtys-api/internal/pkg/password"
)

type stubRepo struct {
	admins map[string]*Admin
}

func (s *stubRepo) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	if a, ok := s.admins[username]; ok {
		return a, nil
	}
	return nil, ErrAdminNotFound
}

func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	for _, a := range s.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrAdminNotFound
}

func newTestService(t *testing.T) (*Service, *Admin) {
	t.Helper()

	hash, err := password.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	a := &Admin{
		ID:           uuid.New(),
		Username:     "owner",
		PasswordHash: hash,
		Name:         "Studio Owner",
	}
	repo := &stubRepo{admins: map[string]*Admin{a.Username: a}}
	return &Service{repo: repo, jwt: jwt.NewService("test-secret", time.Hour)}, a
}

func TestLogin(t *testing.T) {
	svc, a := newTestService(t)

	token, got, err := svc.Login(context.Background(), "owner", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if got.ID != a.ID {
		t.Errorf("ID = %v, want %v", got.ID, a.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "owner", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownUserSameError(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "ghost", "s3cret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}
