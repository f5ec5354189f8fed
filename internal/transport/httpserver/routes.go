package httpserver

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hotlunchhub/internal/config"
	usersdomain "hotlunchhub/internal/domain/users"
	"hotlunchhub/internal/metrics"
	"hotlunchhub/internal/transport/httpserver/handler"
	functionshandler "hotlunchhub/internal/transport/httpserver/handler/functions"
	authmw "hotlunchhub/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Auth) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Handle("/metrics", promhttp.Handler())

	anyRole := authmw.RequireRole(usersdomain.RoleAdmin, usersdomain.RoleCook, usersdomain.RoleDriver, usersdomain.RoleEmployee)
	adminOnly := authmw.RequireRole(usersdomain.RoleAdmin)

	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(auth.ErrorsWith(functionshandler.WriteRejected))
		if cfg.Users.FunctionsRequireAdmin {
			r.Use(authmw.RequireRoleWith(functionshandler.WriteRejected, usersdomain.RoleAdmin))
		}
		r.Post("/create-user", handlers.Functions.CreateUser)
		r.Post("/delete-user", handlers.Functions.DeleteUser)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		r.Post("/auth/sign-in", handlers.Common.SignIn)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/session", handlers.Common.Session)
			r.Get("/auth/me", handlers.Common.AuthMe)
			r.Get("/auth/me/record", handlers.Common.AuthMeRecord)

			r.Group(func(r chi.Router) {
				r.Use(anyRole)
				r.Get("/meals", handlers.Admin.ListMeals)
				r.Get("/meals/{id}", handlers.Admin.GetMeal)
			})

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Get("/companies", handlers.Admin.ListCompanies)
				r.Post("/companies", handlers.Admin.CreateCompany)
				r.Get("/companies/{id}", handlers.Admin.GetCompany)
				r.Patch("/companies/{id}", handlers.Admin.UpdateCompany)
				r.Delete("/companies/{id}", handlers.Admin.DeleteCompany)
				r.Get("/companies/{id}/references", handlers.Admin.CompanyReferences)

				r.Post("/meals", handlers.Admin.CreateMeal)
				r.Patch("/meals/{id}", handlers.Admin.UpdateMeal)
				r.Delete("/meals/{id}", handlers.Admin.DeleteMeal)
				r.Post("/meals/{id}/images", handlers.Admin.UploadMealImage)

				r.Get("/orders", handlers.Admin.ListOrders)
				r.Post("/orders", handlers.Admin.CreateOrder)
				r.Get("/orders/{id}", handlers.Admin.GetOrder)
				r.Patch("/orders/{id}/status", handlers.Admin.UpdateOrderStatus)
				r.Delete("/orders/{id}", handlers.Admin.DeleteOrder)

				r.Get("/records/{role}", handlers.Admin.ListRecords)
				r.Get("/records/{role}/{id}", handlers.Admin.GetRecord)
				r.Patch("/records/{role}/{id}", handlers.Admin.UpdateRecord)

				r.Get("/profiles/{id}", handlers.Admin.GetProfile)
				r.Patch("/profiles/{id}/status", handlers.Admin.UpdateProfileStatus)
			})

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(usersdomain.RoleEmployee))
				r.Get("/me/orders", handlers.Roles.ListMyOrders)
				r.Post("/me/orders", handlers.Roles.PlaceOrder)
				r.Post("/me/orders/{id}/cancel", handlers.Roles.CancelMyOrder)
			})

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(usersdomain.RoleCook))
				r.Get("/cook/meals", handlers.Roles.ListCookMeals)
				r.Post("/cook/meals", handlers.Roles.CreateCookMeal)
				r.Patch("/cook/meals/{id}", handlers.Roles.UpdateCookMeal)
				r.Post("/cook/meals/{id}/images", handlers.Roles.UploadCookMealImage)
				r.Get("/cook/orders", handlers.Roles.ListCookOrders)
				r.Patch("/cook/orders/{id}/status", handlers.Roles.AdvanceCookOrder)
			})

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(usersdomain.RoleDriver))
				r.Get("/driver/orders", handlers.Roles.ListDriverOrders)
				r.Post("/driver/orders/{id}/deliver", handlers.Roles.DeliverOrder)
			})
		})
	})

	return r
}
