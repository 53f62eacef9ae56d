package api

import (
	"context"
	"encoding/json"
	"net/http"

	customErrors "github.com/collabblog/blogclient/internal/auth/errors"
	"github.com/collabblog/blogclient/internal/auth/model"
)

type UserPage struct {
	Users      []model.User `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// UsersAPI covers the admin user-management endpoints. Role enforcement
// here is UX only; the server checks authorization independently.
type UsersAPI struct {
	c *Client
}

func NewUsersAPI(c *Client) *UsersAPI { return &UsersAPI{c: c} }

// List returns a paginated user listing. The admin endpoint nests the page
// inside the envelope's data field.
func (a *UsersAPI) List(ctx context.Context, params ListParams) (UserPage, error) {
	env, err := a.c.doEnvelope(ctx, http.MethodGet, "/admin/users", params.query(), nil)
	if err != nil {
		return UserPage{}, mapError(err, "list users")
	}

	var page UserPage
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return UserPage{}, customErrors.WrapInternal(err, "decode users")
		}
	}
	return page, nil
}

func (a *UsersAPI) UpdateRole(ctx context.Context, userID string, role model.Role) (model.User, error) {
	body := map[string]model.Role{"role": role}
	var u model.User
	if err := a.c.do(ctx, http.MethodPatch, "/admin/users/"+userID, nil, body, &u); err != nil {
		return model.User{}, mapError(err, "update role for "+userID)
	}
	return u, nil
}

func (a *UsersAPI) Delete(ctx context.Context, userID string) error {
	if err := a.c.do(ctx, http.MethodDelete, "/admin/users/"+userID, nil, nil, nil); err != nil {
		return mapError(err, "delete user "+userID)
	}
	return nil
}
