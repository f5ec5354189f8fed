package common

import (
	"context"

	usersdomain "hotlunchhub/internal/domain/users"
	"hotlunchhub/internal/identity"
	"hotlunchhub/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type SignInProvider interface {
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
}

type Handlers struct {
	Users    *usersdomain.Service
	Identity SignInProvider
	DB       Pinger
	log      logger.Logger
}

func New(users *usersdomain.Service, identities SignInProvider, db Pinger, log logger.Logger) *Handlers {
	return &Handlers{
		Users:    users,
		Identity: identities,
		DB:       db,
		log:      log,
	}
}
