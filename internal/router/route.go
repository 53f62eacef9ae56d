package router

import (
	"net/url"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/collabblog/blogclient/internal/auth/model"
)

// Well-known navigation targets.
const (
	RootPath         = "/"
	LoginPath        = "/auth/login"
	RegisterPath     = "/auth/register"
	AccessDeniedPath = "/access-denied"
	AuthPrefix       = "/auth/"
)

// Session is what guards read. Implemented by session.Manager.
type Session interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	Current() (model.User, bool)
	Resolved() bool
}

// RouteContext is the navigation attempt a guard evaluates.
type RouteContext struct {
	Path    string
	Query   url.Values
	Roles   []model.Role
	Session Session
	// Origin is the client's own origin, used to reject cross-origin
	// returnUrl values.
	Origin string
}

// Decision is the guard verdict: allowed, or a redirect target.
type Decision struct {
	Allowed  bool
	Redirect *Redirect
}

type Redirect struct {
	Path  string
	Query url.Values
}

func Allow() Decision { return Decision{Allowed: true} }

func RedirectTo(path string, query url.Values) Decision {
	return Decision{Redirect: &Redirect{Path: path, Query: query}}
}

// Guard is a predicate evaluated before allowing navigation to a route.
type Guard interface {
	Evaluate(ctx RouteContext) Decision
}

// Route pairs a path glob with its guards and the role set RoleGuard
// consults. An empty role set means the route is open to any session
// the other guards accept.
type Route struct {
	Pattern string
	Guards  []Guard
	Roles   []model.Role
}

type Table struct {
	routes []Route
}

func NewTable(routes []Route) *Table {
	return &Table{routes: routes}
}

// Match returns the first route whose pattern covers path. Declaration
// order is precedence, so specific entries go before catch-alls.
func (t *Table) Match(path string) (Route, bool) {
	for _, r := range t.routes {
		if ok, err := doublestar.Match(r.Pattern, path); err == nil && ok {
			return r, true
		}
	}
	return Route{}, false
}
