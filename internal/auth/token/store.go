package token

import "github.com/collabblog/blogclient/internal/auth/model"

// Storage keys, shared by every backend. All three are cleared together on
// logout.
const (
	KeyAccessToken  = "cb_access_token"
	KeyRefreshToken = "cb_refresh_token"
	KeyUserData     = "cb_user_data"
)

// Store is the sole owner of persisted tokens and the cached profile.
// Storage faults never propagate: reads degrade to absent, writes are logged
// and swallowed so a broken keystore cannot break a login flow.
type Store interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	SetTokens(access, refresh string)
	ClearTokens()

	SaveProfile(u model.User)
	CachedProfile() (model.User, bool)

	// Clear removes tokens and the cached profile in one step.
	Clear()
}
