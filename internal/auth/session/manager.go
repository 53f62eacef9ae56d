package session

import (
	"context"
	"net/url"
	"time"

	"github.com/collabblog/blogclient/internal/auth/claims"
	"github.com/collabblog/blogclient/internal/auth/dto"
	customErrors "github.com/collabblog/blogclient/internal/auth/errors"
	"github.com/collabblog/blogclient/internal/auth/model"
	"github.com/collabblog/blogclient/internal/auth/token"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const loginPath = "/auth/login"

// AuthAPI is the remote auth surface the manager drives. Implemented by
// api.AuthAPI; kept as an interface so tests can stub the server away.
type AuthAPI interface {
	Login(ctx context.Context, in dto.LoginDTO) (model.User, model.TokenPair, error)
	Register(ctx context.Context, in dto.RegisterDTO) (string, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
}

// Navigator is the slice of the router the manager needs for forced
// navigation after logout. Attached late because the router itself reads
// session state through its guards.
type Navigator interface {
	NavigateTo(path string, query url.Values)
}

// Manager is the single source of truth for "who is the current user".
// One instance per running client, constructed at startup and passed by
// reference to guards and interceptors.
type Manager struct {
	store    token.Store
	api      AuthAPI
	validate *validator.Validate
	log      *zap.Logger
	cell     *cell
	nav      Navigator
	now      func() time.Time
}

func NewManager(store token.Store, api AuthAPI, log *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		api:      api,
		validate: validator.New(),
		log:      log,
		cell:     newCell(),
		now:      time.Now,
	}
}

// AttachNavigator wires the router in after construction.
func (m *Manager) AttachNavigator(nav Navigator) { m.nav = nav }

// Initialize resolves the session from persisted state. Runs once at
// process start, before any guard is evaluated.
func (m *Manager) Initialize() {
	access, ok := m.store.AccessToken()
	if !ok {
		m.cell.publish(nil)
		return
	}

	c, err := claims.Decode(access)
	if err != nil {
		m.log.Warn("stored access token is unreadable, clearing session", zap.Error(err))
		m.store.Clear()
		m.cell.publish(nil)
		return
	}
	if c.ExpiredAt(m.now()) {
		m.store.Clear()
		m.cell.publish(nil)
		return
	}

	if cached, ok := m.store.CachedProfile(); ok {
		if cached.ID == c.SubjectID() {
			m.cell.publish(&cached)
			return
		}
		m.log.Warn("cached profile does not match token subject, rebuilding from claims",
			zap.String("cached_id", cached.ID),
			zap.String("subject", c.SubjectID()),
		)
	}

	u := m.profileFromClaims(c)
	m.store.SaveProfile(u)
	m.cell.publish(&u)
}

func (m *Manager) profileFromClaims(c claims.Claims) model.User {
	role, ok := model.ParseRole(c.Role)
	if !ok {
		// The platform issues tokens without a role claim for unverified
		// accounts; defaulting to guest mirrors that, but a missing claim
		// can also mean a misconfigured issuer, so it is worth a warning.
		m.log.Warn("token carries no usable role claim, defaulting to guest",
			zap.String("subject", c.SubjectID()))
		role = model.RoleGuest
	}

	now := m.now()
	return model.User{
		ID:        c.SubjectID(),
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Login establishes a fresh session. Any prior session is cleared first,
// and every error path clears again so no stale tokens survive a failure.
func (m *Manager) Login(ctx context.Context, email, password string) (model.User, error) {
	m.clearSession()

	in := dto.LoginDTO{Email: email, Password: password}
	if err := m.validate.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, pair, err := m.api.Login(ctx, in)
	if err != nil {
		m.clearSession()
		return model.User{}, err
	}

	m.store.SetTokens(pair.AccessToken, pair.RefreshToken)
	m.store.SaveProfile(user)
	m.cell.publish(&user)
	return user, nil
}

// Register creates an account. Registration does not establish a session;
// on success the caller routes the user to login.
func (m *Manager) Register(ctx context.Context, in dto.RegisterDTO) (string, error) {
	if err := m.validate.Struct(in); err != nil {
		return "", customErrors.NewInvalidArgument(err.Error())
	}
	return m.api.Register(ctx, in)
}

// Logout clears everything and forces navigation to the login route.
// Safe to call repeatedly.
func (m *Manager) Logout() {
	m.clearSession()
	if m.nav != nil {
		m.nav.NavigateTo(loginPath, nil)
	}
}

// ExpireSession is the 401 path: same clearing as logout, no navigation.
// The interceptor that calls it owns the redirect so it can carry the
// attempted path as returnUrl.
func (m *Manager) ExpireSession() {
	m.clearSession()
}

// Refresh exchanges the refresh token for a new pair. Best-effort silent
// renewal: failure clears the tokens but keeps the cached profile and never
// navigates.
func (m *Manager) Refresh(ctx context.Context) bool {
	rt, ok := m.store.RefreshToken()
	if !ok {
		return false
	}

	pair, err := m.api.Refresh(ctx, rt)
	if err != nil {
		m.log.Warn("session refresh failed", zap.Error(err))
		m.store.ClearTokens()
		return false
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		m.store.ClearTokens()
		return false
	}

	m.store.SetTokens(pair.AccessToken, pair.RefreshToken)
	return true
}

func (m *Manager) clearSession() {
	m.store.Clear()
	m.cell.publish(nil)
}

func (m *Manager) Current() (model.User, bool) {
	u, _ := m.cell.value()
	if u == nil {
		return model.User{}, false
	}
	return *u, true
}

// Resolved reports whether initialization has completed. Guards use it to
// tolerate the startup race between stored tokens and session resolution.
func (m *Manager) Resolved() bool {
	_, resolved := m.cell.value()
	return resolved
}

func (m *Manager) IsAuthenticated() bool {
	access, ok := m.store.AccessToken()
	if !ok {
		return false
	}
	c, err := claims.Decode(access)
	if err != nil {
		return false
	}
	return !c.ExpiredAt(m.now())
}

func (m *Manager) HasRole(role model.Role) bool {
	u, ok := m.Current()
	return ok && u.Role == role
}

func (m *Manager) CurrentRole() (model.Role, bool) {
	u, ok := m.Current()
	if !ok {
		return "", false
	}
	return u.Role, true
}

// Subscribe returns a replay-latest stream of the current user. The
// channel immediately yields the present value once the session has
// resolved; cancel releases the subscription.
func (m *Manager) Subscribe() (<-chan *model.User, func()) {
	return m.cell.subscribe()
}

func (m *Manager) AccessToken() (string, bool)  { return m.store.AccessToken() }
func (m *Manager) RefreshToken() (string, bool) { return m.store.RefreshToken() }
