package router

import (
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// AuthGuard protects authenticated-only routes. The check is token
// presence, not validity: an expired token will be caught by the first
// request's 401 interception.
type AuthGuard struct{}

func (AuthGuard) Evaluate(ctx RouteContext) Decision {
	if _, ok := ctx.Session.AccessToken(); ok {
		return Allow()
	}

	returnURL := ctx.Path
	if strings.HasPrefix(returnURL, AuthPrefix) {
		// Bouncing back into the auth section would loop.
		returnURL = RootPath
	}
	return RedirectTo(LoginPath, url.Values{"returnUrl": {returnURL}})
}

// GuestGuard keeps signed-in users away from login/register.
type GuestGuard struct{}

func (GuestGuard) Evaluate(ctx RouteContext) Decision {
	_, hasAccess := ctx.Session.AccessToken()
	_, hasRefresh := ctx.Session.RefreshToken()
	if !hasAccess && !hasRefresh {
		return Allow()
	}

	// Tokens exist but the session may still be resolving at startup;
	// allowing avoids redirect thrashing while it settles.
	if !ctx.Session.Resolved() {
		return Allow()
	}
	if _, ok := ctx.Session.Current(); !ok {
		return Allow()
	}

	return RedirectTo(safeReturnURL(ctx.Query.Get("returnUrl"), ctx.Origin), nil)
}

// safeReturnURL collapses anything cross-origin or malformed to root.
// Open-redirect defense: only relative or same-origin targets survive.
func safeReturnURL(returnURL, origin string) string {
	if returnURL == "" {
		return RootPath
	}

	u, err := url.Parse(returnURL)
	if err != nil {
		if strings.HasPrefix(returnURL, "/") {
			return returnURL
		}
		return RootPath
	}

	if u.IsAbs() || u.Host != "" {
		base, err := url.Parse(origin)
		if err != nil || u.Scheme != base.Scheme || u.Host != base.Host {
			return RootPath
		}
	} else if !strings.HasPrefix(u.Path, "/") {
		return RootPath
	}

	target := u.Path
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		target += "#" + u.Fragment
	}
	if target == "" {
		return RootPath
	}
	return target
}

// RoleGuard gates role-restricted routes. This is UX signaling only; the
// server enforces authorization independently.
type RoleGuard struct {
	Log *zap.Logger
}

func (g RoleGuard) Evaluate(ctx RouteContext) Decision {
	if len(ctx.Roles) == 0 {
		return Allow()
	}

	user, ok := ctx.Session.Current()
	if !ok {
		return RedirectTo(LoginPath, url.Values{
			"returnUrl": {ctx.Path},
			"message":   {"Please log in to access this page."},
		})
	}

	for _, r := range ctx.Roles {
		if user.Role == r {
			return Allow()
		}
	}

	if g.Log != nil {
		g.Log.Warn("access denied: role not in allowed set",
			zap.String("path", ctx.Path),
			zap.String("role", string(user.Role)),
		)
	}
	return RedirectTo(AccessDeniedPath, url.Values{
		"returnUrl":  {ctx.Path},
		"message":    {"You do not have permission to access this page."},
		"isLoggedIn": {"true"},
	})
}
