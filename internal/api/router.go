package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/daap14/roleassign/internal/api/handler"
	"github.com/daap14/roleassign/internal/api/middleware"
	"github.com/daap14/roleassign/internal/role"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger      handler.DBPinger
	Server        handler.ServerInfo
	OpenAPISpec   []byte
	Authenticator middleware.Authenticator
	Assignments   handler.AssignmentService
	Users         handler.UserCreator
	Keys          handler.KeyIssuer
	Roles         role.Repository

	// PublicAssignment lets anonymous callers assign roles and list the
	// available ones.
	PublicAssignment bool
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Server.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	statusHandler := handler.NewStatusHandler(deps.DBPinger, deps.Server)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler.APIStatus)
		r.Get("/server-response", statusHandler.Probe)
		r.Post("/server-response", statusHandler.ProbeAction)

		if deps.Assignments == nil || deps.Authenticator == nil {
			return
		}

		assignmentHandler := handler.NewAssignmentHandler(deps.Assignments)
		requireKey := middleware.Auth(deps.Authenticator)

		r.Get("/user-roles", assignmentHandler.UserRoles)
		r.Get("/simple-user-roles", assignmentHandler.UserRoles)

		r.Group(func(r chi.Router) {
			if deps.PublicAssignment {
				r.Use(middleware.OptionalAuth(deps.Authenticator))
			} else {
				r.Use(requireKey)
			}
			r.Post("/role-assignment", assignmentHandler.Assign)
			r.Post("/role-assignment-enhanced", assignmentHandler.AssignEnhanced)
			r.Get("/role-assignments/available-roles", assignmentHandler.AvailableRoles)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireKey)
			r.Get("/role-assignments", assignmentHandler.List)
			r.Get("/role-assignments/by-email", assignmentHandler.ByEmail)
			r.Post("/role-assignments/{id}/revoke", assignmentHandler.Revoke)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff())

				if deps.Users != nil && deps.Keys != nil {
					userHandler := handler.NewUserHandler(deps.Users, deps.Keys)
					r.Post("/users", userHandler.Create)
					r.Post("/users/{id}/api-key", userHandler.IssueKey)
				}

				if deps.Roles != nil {
					roleHandler := handler.NewRoleHandler(deps.Roles)
					r.Patch("/roles/{id}", roleHandler.Update)
				}
			})
		})
	})

	return r
}
