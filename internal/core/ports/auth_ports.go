package ports

import (
	"context"

	"github.com/vncsmyrnk/pollweb/internal/core/domain"
)

type Credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AuthClient interface {
	Login(ctx context.Context, creds Credentials) (string, error)
	Register(ctx context.Context, creds Credentials) (string, error)
}

type AuthService interface {
	Login(ctx context.Context, store SessionStore, creds Credentials) (*domain.Session, error)
	Register(ctx context.Context, store SessionStore, creds Credentials) (*domain.Session, error)
	Logout(store SessionStore) error
	Current(store SessionStore) (*domain.Session, error)
}
