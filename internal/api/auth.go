package api

import (
	"context"
	"net/http"

	"github.com/collabblog/blogclient/internal/auth/dto"
	customErrors "github.com/collabblog/blogclient/internal/auth/errors"
	"github.com/collabblog/blogclient/internal/auth/model"
)

// AuthAPI talks to the platform's auth endpoints. These paths are skipped
// by the transport's bearer decoration and 401 interception, so HTTP-level
// failures arrive here raw and are mapped to user-facing errors in place.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI { return &AuthAPI{c: c} }

type loginData struct {
	User         model.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

func (a *AuthAPI) Login(ctx context.Context, in dto.LoginDTO) (model.User, model.TokenPair, error) {
	var data loginData
	err := a.c.do(ctx, http.MethodPost, "/auth/login", nil, in, &data)
	if err != nil {
		return model.User{}, model.TokenPair{}, mapLoginError(err)
	}
	pair := model.TokenPair{AccessToken: data.AccessToken, RefreshToken: data.RefreshToken}
	return data.User, pair, nil
}

func mapLoginError(err error) error {
	se, ok := err.(*StatusError)
	if !ok {
		return err
	}
	switch {
	case se.Status == http.StatusUnauthorized:
		return customErrors.ErrInvalidCredentials
	case se.Status == http.StatusBadRequest:
		return customErrors.NewInvalidArgument(se.Message)
	case se.Status >= 500:
		return customErrors.WrapServer(se, "login")
	}
	return customErrors.WrapInternal(se, "login")
}

// Register returns the server's confirmation message. Field-level
// validation errors and duplicate-email conflicts surface as friendly
// messages; no session is established.
func (a *AuthAPI) Register(ctx context.Context, in dto.RegisterDTO) (string, error) {
	env, err := a.c.doEnvelope(ctx, http.MethodPost, "/auth/register", nil, in)
	if err != nil {
		return "", mapRegisterError(err)
	}
	return env.Message, nil
}

func mapRegisterError(err error) error {
	se, ok := err.(*StatusError)
	if !ok {
		return err
	}
	switch {
	case se.Status == http.StatusBadRequest:
		return customErrors.NewInvalidArgument(se.FieldMessages())
	case se.Status == http.StatusConflict:
		return customErrors.NewConflict("an account with this email already exists")
	case se.Status >= 500:
		return customErrors.WrapServer(se, "register")
	}
	return customErrors.WrapInternal(se, "register")
}

// Refresh exchanges the refresh token for a new pair. The response is a
// bare token object, not the usual envelope.
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	var pair model.TokenPair
	in := dto.RefreshDTO{RefreshToken: refreshToken}
	if err := a.c.doRaw(ctx, http.MethodPost, "/auth/refresh", in, &pair); err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}
	return pair, nil
}

func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := a.c.doEnvelope(ctx, http.MethodPost, "/auth/forgot-password",
		nil, dto.ForgotPasswordDTO{Email: email})
	if err != nil {
		return "", mapError(err, "forgot password")
	}
	return env.Message, nil
}

func (a *AuthAPI) ResetPassword(ctx context.Context, in dto.ResetPasswordDTO) (string, error) {
	env, err := a.c.doEnvelope(ctx, http.MethodPost, "/auth/reset-password/confirm", nil, in)
	if err != nil {
		return "", mapError(err, "reset password")
	}
	return env.Message, nil
}
