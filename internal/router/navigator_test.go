package router

import (
	"net/url"
	"testing"

	"github.com/collabblog/blogclient/internal/auth/model"
	"go.uber.org/zap"
)

func testTable(log *zap.Logger) *Table {
	roleGuard := RoleGuard{Log: log}
	return NewTable([]Route{
		{Pattern: "/auth/**", Guards: []Guard{GuestGuard{}}},
		{Pattern: "/access-denied"},
		{Pattern: "/articles/**"},
		{Pattern: "/dashboards/admin/**",
			Guards: []Guard{AuthGuard{}, roleGuard},
			Roles:  []model.Role{model.RoleAdmin},
		},
		{Pattern: "/"},
	})
}

func newTestNavigator(sess Session) *Navigator {
	log := zap.NewNop()
	return NewNavigator(testTable(log), sess, testOrigin, log)
}

func TestNavigate_PublicRouteAllowed(t *testing.T) {
	nav := newTestNavigator(&sessionStub{})
	loc, err := nav.Navigate("/articles/42", nil)
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != "/articles/42" {
		t.Fatalf("landed on %s", loc.Path)
	}
	if nav.Current().Path != "/articles/42" {
		t.Fatal("current location not recorded")
	}
}

func TestNavigate_GuardRedirectFollowedToLogin(t *testing.T) {
	nav := newTestNavigator(&sessionStub{})
	loc, err := nav.Navigate("/dashboards/admin/users", nil)
	if err != nil {
		t.Fatal(err)
	}
	// AuthGuard bounces to login; GuestGuard admits it there.
	if loc.Path != LoginPath {
		t.Fatalf("landed on %s, want %s", loc.Path, LoginPath)
	}
	if loc.Query.Get("returnUrl") != "/dashboards/admin/users" {
		t.Fatalf("returnUrl = %q", loc.Query.Get("returnUrl"))
	}
}

func TestNavigate_RoleDeniedLandsOnAccessDenied(t *testing.T) {
	sess := &sessionStub{access: "tok", resolved: true, user: &model.User{ID: "u1", Role: model.RoleWriter}}
	nav := newTestNavigator(sess)

	loc, err := nav.Navigate("/dashboards/admin/users", nil)
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != AccessDeniedPath {
		t.Fatalf("landed on %s, want %s", loc.Path, AccessDeniedPath)
	}
	if loc.Query.Get("isLoggedIn") != "true" {
		t.Fatal("missing isLoggedIn flag")
	}
}

func TestNavigate_AdminPassesAdminRoute(t *testing.T) {
	sess := &sessionStub{access: "tok", resolved: true, user: &model.User{ID: "u1", Role: model.RoleAdmin}}
	nav := newTestNavigator(sess)

	loc, err := nav.Navigate("/dashboards/admin/users", nil)
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != "/dashboards/admin/users" {
		t.Fatalf("landed on %s", loc.Path)
	}
}

func TestNavigate_SignedInUserBouncedOffLogin(t *testing.T) {
	sess := &sessionStub{access: "tok", resolved: true, user: &model.User{ID: "u1", Role: model.RoleWriter}}
	nav := newTestNavigator(sess)

	loc, err := nav.Navigate(LoginPath, url.Values{"returnUrl": {"/articles/42"}})
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != "/articles/42" {
		t.Fatalf("landed on %s, want the safe returnUrl", loc.Path)
	}
}

func TestNavigate_CrossOriginReturnURLDegradesToRoot(t *testing.T) {
	sess := &sessionStub{access: "tok", resolved: true, user: &model.User{ID: "u1", Role: model.RoleWriter}}
	nav := newTestNavigator(sess)

	loc, err := nav.Navigate(LoginPath, url.Values{"returnUrl": {"https://evil.example/x"}})
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != RootPath {
		t.Fatalf("landed on %s, cross-origin returnUrl must degrade to root", loc.Path)
	}
}

func TestNavigate_UnroutedPathAllowed(t *testing.T) {
	nav := newTestNavigator(&sessionStub{})
	loc, err := nav.Navigate("/totally/unknown", nil)
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != "/totally/unknown" {
		t.Fatalf("landed on %s", loc.Path)
	}
}

type alwaysRedirect struct{ to string }

func (a alwaysRedirect) Evaluate(RouteContext) Decision { return RedirectTo(a.to, nil) }

func TestNavigate_RedirectLoopFallsBackToRoot(t *testing.T) {
	log := zap.NewNop()
	table := NewTable([]Route{
		{Pattern: "/a", Guards: []Guard{alwaysRedirect{to: "/b"}}},
		{Pattern: "/b", Guards: []Guard{alwaysRedirect{to: "/a"}}},
	})
	nav := NewNavigator(table, &sessionStub{}, testOrigin, log)

	loc, err := nav.Navigate("/a", nil)
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != RootPath {
		t.Fatalf("loop must settle on root, got %s", loc.Path)
	}
}
