package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core/user"
)

type authApi struct {
	deps    *ServerDeps
	limiter *rateLimiter
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, limiter *rateLimiter, deps *ServerDeps) {
	api := authApi{deps: deps, limiter: limiter}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	tg := ag.Group("", jwt)
	tg.GET("/me", api.me)
	tg.PUT("/profile", api.updateProfile)
	tg.PUT("/password", api.changePassword)
	tg.POST("/logout", api.logout)
	tg.POST("/token-refresh", api.refreshToken)
}

// Handlers

func (api *authApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if !api.limiter.allow(ctx.RealIP() + "|" + data.Email) {
		return errTooManyRequests
	}
	if err := data.Validate(ctx.Request().Context(), api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err := api.deps.UserSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	token, err := GenerateToken(api.deps.Conf, GetUserClaims(api.deps.Conf, usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusCreated, successData(TokenResponse{Token: token, User: usr}))
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if !api.limiter.allow(ctx.RealIP() + "|" + data.Email) {
		return errTooManyRequests
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, claims, err := authenticate(ctx, api.deps.Conf, data.Email, data.Password, api.deps.UserSvc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.deps.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, successData(TokenResponse{Token: token, User: usr}))
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, successData(usr))
}

func (api *authApi) updateProfile(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(ctx.Request().Context(), usr, api.deps.Validate, api.deps.UserSvc); err != nil {
		return err
	}

	usr, err = api.deps.UserSvc.UpdateProfile(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	ctx.Set(contextUserKey, usr)
	return ctx.JSON(http.StatusOK, successData(usr))
}

func (api *authApi) changePassword(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data user.ChangePassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if _, err = api.deps.UserSvc.ChangePassword(ctx.Request().Context(), usr, data); err != nil {
		return errors.Wrap(err, "changing password")
	}
	return ctx.JSON(http.StatusOK, successMessage("Password has been changed."))
}

// logout is a stateless no-op; tokens are not revoked server-side.
func (api *authApi) logout(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, successMessage("Logged out."))
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.deps.Conf, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, successData(TokenResponse{Token: token, User: usr}))
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.deps.UserSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, successMessage(
		"If the email address supplied is associated with an active account on this system, "+
			"an email will arrive in your inbox shortly with instructions to reset your password."))
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.deps.UserSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, successMessage("Password has been reset with the new password."))
}
