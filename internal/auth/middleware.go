package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workforce-console/internal/domain"
	"github.com/spec-kit/workforce-console/internal/repository"
	apperrors "github.com/spec-kit/workforce-console/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated console account.
type Principal struct {
	AccountID int64
	Role      string
	Account   *domain.Admin
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	admins repository.AdminRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, admins repository.AdminRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, admins: admins}
}

// Handle enforces authentication for protected routes. Unknown or deactivated accounts are
// rejected with 401 so the console drops the session.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	id, err := claims.AccountID()
	if err != nil {
		return apperrors.NewUnauthorized("invalid token subject")
	}

	account, err := m.admins.GetByID(c.UserContext(), id)
	if err != nil {
		if apperrors.ToDomainError(err).Code == apperrors.CodeNotFound {
			return apperrors.NewUnauthorized("account not found")
		}
		return err
	}
	if account.Role != claims.Role {
		return apperrors.NewUnauthorized("role changed")
	}
	if !account.Active {
		return apperrors.NewUnauthorized("account deactivated")
	}

	c.Locals(principalKey, &Principal{AccountID: id, Role: claims.Role, Account: account})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
