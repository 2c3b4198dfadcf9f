package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/phoenixdev100/tap/core/access"
)

const contextDecisionKey = "accessDecision"

var errAccessDenied = echo.NewHTTPError(http.StatusForbidden, access.DeniedMessage)

// requirePermission evaluates the access policy for the caller's role.
// The resulting Decision is stored on the context so handlers can
// scope AllowOwn reads and re-check ownership on writes.
func requirePermission(resource access.Resource, action access.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			decision := access.Can(claims.Role, resource, action)
			if !decision.Allowed() {
				return errAccessDenied
			}
			ctx.Set(contextDecisionKey, decision)
			return next(ctx)
		}
	}
}

func contextDecision(ctx echo.Context) access.Decision {
	if decision, ok := ctx.Get(contextDecisionKey).(access.Decision); ok {
		return decision
	}
	return access.Deny
}

// ownedOrFull passes a Decision that is AllowFull, or AllowOwn when
// the caller owns the object.
func ownedOrFull(ctx echo.Context, claims Claims, ownerID string) error {
	decision := contextDecision(ctx)
	if decision == access.AllowFull {
		return nil
	}
	if decision == access.AllowOwn && claims.Subject == ownerID {
		return nil
	}
	return errAccessDenied
}
