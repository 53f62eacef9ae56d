package router

import (
	"net/url"
	"testing"

	"github.com/collabblog/blogclient/internal/auth/model"
)

type sessionStub struct {
	access   string
	refresh  string
	user     *model.User
	resolved bool
}

func (s *sessionStub) AccessToken() (string, bool)  { return s.access, s.access != "" }
func (s *sessionStub) RefreshToken() (string, bool) { return s.refresh, s.refresh != "" }
func (s *sessionStub) Resolved() bool               { return s.resolved }
func (s *sessionStub) Current() (model.User, bool) {
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

const testOrigin = "https://blog.example.com"

func ctxWith(sess Session, path string, query url.Values, roles ...model.Role) RouteContext {
	if query == nil {
		query = url.Values{}
	}
	return RouteContext{Path: path, Query: query, Roles: roles, Session: sess, Origin: testOrigin}
}

func TestAuthGuard_NoTokenRedirectsWithReturnURL(t *testing.T) {
	d := AuthGuard{}.Evaluate(ctxWith(&sessionStub{}, "/dashboards/writer", nil))

	if d.Allowed || d.Redirect == nil {
		t.Fatal("expected redirect")
	}
	if d.Redirect.Path != LoginPath {
		t.Fatalf("want %s got %s", LoginPath, d.Redirect.Path)
	}
	if got := d.Redirect.Query.Get("returnUrl"); got != "/dashboards/writer" {
		t.Fatalf("returnUrl = %q", got)
	}
}

func TestAuthGuard_AuthSectionReturnURLDegradesToRoot(t *testing.T) {
	d := AuthGuard{}.Evaluate(ctxWith(&sessionStub{}, "/auth/profile", nil))

	if d.Redirect == nil {
		t.Fatal("expected redirect")
	}
	if got := d.Redirect.Query.Get("returnUrl"); got != RootPath {
		t.Fatalf("returnUrl = %q, want root to avoid a redirect loop", got)
	}
}

func TestAuthGuard_TokenAllows(t *testing.T) {
	d := AuthGuard{}.Evaluate(ctxWith(&sessionStub{access: "tok"}, "/dashboards/writer", nil))
	if !d.Allowed {
		t.Fatal("expected allow")
	}
}

func TestGuestGuard_NoTokensAlwaysAllowed(t *testing.T) {
	d := GuestGuard{}.Evaluate(ctxWith(&sessionStub{}, LoginPath, nil))
	if !d.Allowed {
		t.Fatal("expected allow with no tokens at all")
	}
}

func TestGuestGuard_UnresolvedSessionAllowed(t *testing.T) {
	// Tokens exist but initialization has not finished: allowing avoids
	// redirect thrashing at startup.
	sess := &sessionStub{access: "tok", refresh: "ref", resolved: false}
	d := GuestGuard{}.Evaluate(ctxWith(sess, LoginPath, nil))
	if !d.Allowed {
		t.Fatal("expected allow during the startup race")
	}
}

func TestGuestGuard_ResolvedSessionRedirects(t *testing.T) {
	sess := &sessionStub{access: "tok", resolved: true, user: &model.User{ID: "u1"}}

	tests := []struct {
		name      string
		returnURL string
		want      string
	}{
		{"no returnUrl", "", RootPath},
		{"relative", "/articles/42", "/articles/42"},
		{"relative with query", "/articles?page=2", "/articles?page=2"},
		{"same origin absolute", testOrigin + "/articles/42", "/articles/42"},
		{"cross origin", "https://evil.example/x", RootPath},
		{"scheme relative", "//evil.example/x", RootPath},
		{"not rooted", "articles", RootPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			if tt.returnURL != "" {
				q.Set("returnUrl", tt.returnURL)
			}
			d := GuestGuard{}.Evaluate(ctxWith(sess, LoginPath, q))
			if d.Allowed || d.Redirect == nil {
				t.Fatal("expected redirect for authenticated user")
			}
			if d.Redirect.Path != tt.want {
				t.Fatalf("redirect = %q, want %q", d.Redirect.Path, tt.want)
			}
		})
	}
}

func TestRoleGuard_EmptyRoleSetAlwaysAllows(t *testing.T) {
	for _, sess := range []*sessionStub{
		{},
		{access: "tok", resolved: true, user: &model.User{Role: model.RoleGuest}},
	} {
		d := RoleGuard{}.Evaluate(ctxWith(sess, "/articles", nil))
		if !d.Allowed {
			t.Fatal("empty role set must allow unconditionally")
		}
	}
}

func TestRoleGuard_NoSessionRedirectsToLogin(t *testing.T) {
	d := RoleGuard{}.Evaluate(ctxWith(&sessionStub{}, "/dashboards/admin", nil, model.RoleAdmin))

	if d.Redirect == nil || d.Redirect.Path != LoginPath {
		t.Fatalf("expected login redirect, got %+v", d)
	}
	if d.Redirect.Query.Get("message") == "" {
		t.Fatal("login redirect must carry a message")
	}
	if d.Redirect.Query.Get("returnUrl") != "/dashboards/admin" {
		t.Fatal("login redirect must carry the attempted path")
	}
}

func TestRoleGuard_WrongRoleGoesToAccessDenied(t *testing.T) {
	sess := &sessionStub{access: "tok", resolved: true, user: &model.User{ID: "u1", Role: model.RoleWriter}}
	d := RoleGuard{}.Evaluate(ctxWith(sess, "/dashboards/admin", nil, model.RoleAdmin))

	if d.Redirect == nil || d.Redirect.Path != AccessDeniedPath {
		t.Fatalf("expected access-denied redirect, got %+v", d)
	}
	if d.Redirect.Query.Get("isLoggedIn") != "true" {
		t.Fatal("access-denied redirect must flag isLoggedIn")
	}
}

func TestRoleGuard_AnyAllowedRoleMatches(t *testing.T) {
	sess := &sessionStub{access: "tok", resolved: true, user: &model.User{Role: model.RoleEditor}}
	d := RoleGuard{}.Evaluate(ctxWith(sess, "/dashboards/editor", nil, model.RoleEditor, model.RoleAdmin))
	if !d.Allowed {
		t.Fatal("editor must pass an {editor,admin} route")
	}
}
