package router

import (
	"net/url"
	"sync"

	"go.uber.org/zap"
)

// maxRedirects bounds guard-driven redirect chains; anything deeper is a
// misconfigured route table.
const maxRedirects = 8

type Location struct {
	Path  string
	Query url.Values
}

// Navigator resolves navigation attempts against the route table, running
// each route's guards in declaration order and short-circuiting on the
// first redirect. It also remembers the current location so the session
// manager and the 401 interceptor have a notion of "where the user is".
type Navigator struct {
	table   *Table
	session Session
	origin  string
	log     *zap.Logger

	mu      sync.Mutex
	current Location
}

func NewNavigator(table *Table, session Session, origin string, log *zap.Logger) *Navigator {
	return &Navigator{
		table:   table,
		session: session,
		origin:  origin,
		log:     log,
		current: Location{Path: RootPath, Query: url.Values{}},
	}
}

// Navigate attempts to move to path, following guard redirects until a
// route admits the attempt. The final location is recorded and returned.
func (n *Navigator) Navigate(path string, query url.Values) (Location, error) {
	if query == nil {
		query = url.Values{}
	}

	for i := 0; i <= maxRedirects; i++ {
		route, matched := n.table.Match(path)
		if !matched {
			// Unrouted paths are public; render-or-404 is the view's
			// problem, not the guard layer's.
			return n.settle(path, query), nil
		}

		redirect := n.runGuards(route, path, query)
		if redirect == nil {
			return n.settle(path, query), nil
		}

		n.log.Debug("navigation redirected",
			zap.String("from", path),
			zap.String("to", redirect.Path),
		)
		path = redirect.Path
		query = redirect.Query
		if query == nil {
			query = url.Values{}
		}
	}

	n.log.Error("redirect loop in route table, falling back to root")
	return n.settle(RootPath, url.Values{}), nil
}

func (n *Navigator) runGuards(route Route, path string, query url.Values) *Redirect {
	ctx := RouteContext{
		Path:    path,
		Query:   query,
		Roles:   route.Roles,
		Session: n.session,
		Origin:  n.origin,
	}
	for _, g := range route.Guards {
		if d := g.Evaluate(ctx); !d.Allowed {
			return d.Redirect
		}
	}
	return nil
}

func (n *Navigator) settle(path string, query url.Values) Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Location{Path: path, Query: query}
	return n.current
}

// NavigateTo is the fire-and-forget form used by the session manager and
// the 401 interceptor.
func (n *Navigator) NavigateTo(path string, query url.Values) {
	n.Navigate(path, query)
}

func (n *Navigator) Current() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
