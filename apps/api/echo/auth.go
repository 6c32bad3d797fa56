package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/ieee-its/nightslip/core"
)

const sessionContextKey = "sessionToken"

// Claims represents the session claims transmitted via the cookie JWT.
type Claims struct {
	jwt.StandardClaims
	Name    string `json:"name,omitempty"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// newSessionJWTConfig returns the session auth middleware config; the token
// travels in an HttpOnly cookie, never a header.
func newSessionJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    sessionContextKey,
		Claims:        new(Claims),
		TokenLookup:   "cookie:" + conf.Server.SessionCookieName,
	}
}

func newSessionClaims(conf *core.Config, identity core.Identity) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   identity.Email,
			ExpiresAt: now.Add(conf.Server.SessionExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:    identity.Name,
		Email:   identity.Email,
		IsAdmin: conf.IsAdminEmail(identity.Email),
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(sessionContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func newSessionCookie(conf *core.Config, token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     conf.Server.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   !conf.Debug,
		SameSite: http.SameSiteLaxMode,
	}
}

type authApi struct {
	deps ServerDeps
}

func registerAuthAPI(g *echo.Group, deps ServerDeps) {
	api := authApi{deps: deps}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.GET("/me", api.me)
	ag.POST("/logout", api.logout)
}

type (
	LoginRequest struct {
		Token string `json:"token" validate:"required"`
		// AccessToken is sent by the SPA but unused server-side.
		AccessToken string `json:"accessToken"`
	}

	AuthUser struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"is_admin"`
	}

	MeResponse struct {
		User *AuthUser `json:"user"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Token = core.CleanString(lr.Token)
	return validate.Struct(lr)
}

// login verifies a Google ID token and opens a session. Any verified account
// signs in; admins are matched against the configured allow-list.
func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	identity, err := api.deps.IdentitySvc.Verify(data.Token)
	if err != nil {
		if errors.Cause(err) == core.ErrInvalidIDToken {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "verifying ID token")
	}

	claims := newSessionClaims(api.deps.Conf, identity)
	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	ctx.SetCookie(newSessionCookie(api.deps.Conf, token, time.Unix(claims.ExpiresAt, 0)))

	return ctx.JSON(http.StatusOK, MeResponse{User: &AuthUser{
		Name:    claims.Name,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	}})
}

// me reports the current session, or {"user": null} when there is none.
// The SPA relies on this never returning 401.
func (api *authApi) me(ctx echo.Context) error {
	cookie, err := ctx.Cookie(api.deps.Conf.Server.SessionCookieName)
	if err != nil {
		return ctx.JSON(http.StatusOK, MeResponse{})
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(api.deps.Conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx.JSON(http.StatusOK, MeResponse{})
	}

	return ctx.JSON(http.StatusOK, MeResponse{User: &AuthUser{
		Name:    claims.Name,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	}})
}

func (api *authApi) logout(ctx echo.Context) error {
	ctx.SetCookie(newSessionCookie(api.deps.Conf, "", time.Unix(0, 0)))
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}
