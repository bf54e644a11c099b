package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/issue-service/internal/domain"
	apperrors "github.com/civicdesk/issue-service/pkg/util/errorutil"
)

// RequireCitizen ensures a citizen is authenticated.
func RequireCitizen() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Subject != domain.SubjectTypeCitizen {
			return apperrors.NewForbidden("citizen token required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller may triage reports.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
