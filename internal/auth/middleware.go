package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/course-service/internal/domain"
)

const principalKey = "auth_principal"

// Principal is the request-scoped identity plus the role set resolved at the
// moment of the request. It lives in fiber's request locals and is rebuilt
// from scratch on every request; nothing is cached or shared across requests.
type Principal struct {
	SubjectID string
	Email     string
	Roles     []domain.RoleLabel
}

// HasRole reports whether the principal holds the given role.
func (p *Principal) HasRole(label domain.RoleLabel) bool {
	for _, role := range p.Roles {
		if role == label {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds at least one of the labels.
func (p *Principal) HasAnyRole(labels ...domain.RoleLabel) bool {
	for _, label := range labels {
		if p.HasRole(label) {
			return true
		}
	}
	return false
}

// IdentityLoader resolves a token subject to its identity and current role
// set. Satisfied by repository.UserRepository.
type IdentityLoader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Middleware recovers the caller's identity from a bearer token. It never
// rejects a request itself: on any failure the request simply continues
// unauthenticated and the policy layer decides whether that is acceptable.
type Middleware struct {
	tokens     *TokenManager
	identities IdentityLoader
}

// NewMiddleware constructs the middleware.
func NewMiddleware(tokens *TokenManager, identities IdentityLoader) *Middleware {
	return &Middleware{tokens: tokens, identities: identities}
}

// Authenticate extracts and validates a bearer token, re-resolves the
// subject's roles and stores a Principal in request locals. Runs once before
// any route handler.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Next()
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Next()
	}

	subjectID, err := m.tokens.Validate(parts[1])
	if err != nil {
		return c.Next()
	}

	ctx := c.UserContext()
	if err := ctx.Err(); err != nil {
		return err
	}

	user, err := m.identities.GetByID(ctx, subjectID)
	if err != nil {
		return c.Next()
	}
	if user.Status != domain.UserStatusActive {
		return c.Next()
	}

	c.Locals(principalKey, &Principal{
		SubjectID: user.ID,
		Email:     user.Email,
		Roles:     user.RoleLabels(),
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
