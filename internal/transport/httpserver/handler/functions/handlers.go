// Package functions serves the two user-lifecycle endpoints under
// /functions/v1. They answer with a flat {success, ...} body instead of the
// REST error envelope so existing clients keep working.
package functions

import (
	usersdomain "hotlunchhub/internal/domain/users"
	"hotlunchhub/pkg/logger"
)

// ProfileCache drops cached caller profiles after their owner is deleted.
type ProfileCache interface {
	Forget(userID string)
}

type Handlers struct {
	Users    *usersdomain.Service
	profiles ProfileCache
	log      logger.Logger
}

func New(users *usersdomain.Service, profiles ProfileCache, log logger.Logger) *Handlers {
	return &Handlers{
		Users:    users,
		profiles: profiles,
		log:      log,
	}
}
