package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-console/internal/domain"
	apperrors "github.com/spec-kit/workforce-console/pkg/util"
)

// RequireRole ensures the principal carries one of the allowed role claims.
func RequireRole(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden(roleMessage(allowed))
		}
		return c.Next()
	}
}

func roleMessage(allowed []string) string {
	if len(allowed) == 1 && allowed[0] == domain.RoleSuperAdmin {
		return "Super admin role required"
	}
	return "Admin role required"
}
