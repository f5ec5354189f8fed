package admin

import (
	companiesdomain "hotlunchhub/internal/domain/companies"
	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
	"hotlunchhub/pkg/logger"
)

type ProfileCache interface {
	Forget(userID string)
}

type Handlers struct {
	Companies *companiesdomain.Service
	Meals     *mealsdomain.Service
	Orders    *ordersdomain.Service
	Users     *usersdomain.Service
	profiles  ProfileCache
	log       logger.Logger
}

func New(
	companies *companiesdomain.Service,
	meals *mealsdomain.Service,
	orders *ordersdomain.Service,
	users *usersdomain.Service,
	profiles ProfileCache,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Companies: companies,
		Meals:     meals,
		Orders:    orders,
		Users:     users,
		profiles:  profiles,
		log:       log,
	}
}
