package main

import (
	"github.com/collabblog/blogclient/internal/auth/model"
	"github.com/collabblog/blogclient/internal/router"
	"go.uber.org/zap"
)

// routeTable mirrors the platform's navigable surface. Order matters:
// specific patterns precede catch-alls, and guards run left to right.
func routeTable(log *zap.Logger) *router.Table {
	roleGuard := router.RoleGuard{Log: log}

	return router.NewTable([]router.Route{
		{Pattern: "/auth/**", Guards: []router.Guard{router.GuestGuard{}}},
		{Pattern: "/access-denied"},
		{Pattern: "/articles/**"},
		{Pattern: "/dashboards/writer/**",
			Guards: []router.Guard{router.AuthGuard{}, roleGuard},
			Roles:  []model.Role{model.RoleWriter, model.RoleEditor, model.RoleAdmin},
		},
		{Pattern: "/dashboards/editor/**",
			Guards: []router.Guard{router.AuthGuard{}, roleGuard},
			Roles:  []model.Role{model.RoleEditor, model.RoleAdmin},
		},
		{Pattern: "/dashboards/admin/**",
			Guards: []router.Guard{router.AuthGuard{}, roleGuard},
			Roles:  []model.Role{model.RoleAdmin},
		},
		{Pattern: "/profile/**", Guards: []router.Guard{router.AuthGuard{}}},
		{Pattern: "/"},
	})
}
