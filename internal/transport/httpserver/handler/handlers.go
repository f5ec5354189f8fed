package handler

import (
	"hotlunchhub/internal/transport/httpserver/handler/admin"
	"hotlunchhub/internal/transport/httpserver/handler/common"
	"hotlunchhub/internal/transport/httpserver/handler/functions"
	"hotlunchhub/internal/transport/httpserver/handler/roles"
)

type Handlers struct {
	Common    *common.Handlers
	Functions *functions.Handlers
	Admin     *admin.Handlers
	Roles     *roles.Handlers
}

func New(common *common.Handlers, functions *functions.Handlers, admin *admin.Handlers, roles *roles.Handlers) *Handlers {
	return &Handlers{
		Common:    common,
		Functions: functions,
		Admin:     admin,
		Roles:     roles,
	}
}
