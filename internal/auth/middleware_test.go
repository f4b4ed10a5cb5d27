package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/pkg/util"
)

type fakeIdentityLoader struct {
	users map[string]*domain.User
}

func (f *fakeIdentityLoader) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func newAuthApp(tm *TokenManager, loader IdentityLoader) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			de := util.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Code})
		}
		return nil
	})
	app.Use(NewMiddleware(tm, loader).Authenticate)

	policy := NewPolicy(
		[]Rule{{Method: fiber.MethodGet, Pattern: "/public"}},
		[]Rule{{Method: fiber.MethodGet, Pattern: "/admin", Allow: RequireRole(domain.RoleAdmin)}},
	)
	app.Use(policy.Enforce())

	app.Get("/public", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/admin", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/whoami", func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.JSON(fiber.Map{"subject": principal.SubjectID, "roles": principal.Roles})
	})
	return app
}

func authedRequest(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func testLoader() *fakeIdentityLoader {
	return &fakeIdentityLoader{users: map[string]*domain.User{
		"u1": {
			ID:     "u1",
			Email:  "admin@example.com",
			Status: domain.UserStatusActive,
			Roles:  []domain.Role{{ID: "r1", Label: domain.RoleAdmin}},
		},
	}}
}

func TestMiddleware_ValidTokenEstablishesPrincipal(t *testing.T) {
	tm := NewTokenManager("test-secret", 5*time.Minute)
	app := newAuthApp(tm, testLoader())

	token, _, err := tm.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if code := authedRequest(t, app, "/whoami", token); code != http.StatusOK {
		t.Fatalf("whoami with valid token: expected 200, got %d", code)
	}
	if code := authedRequest(t, app, "/admin", token); code != http.StatusOK {
		t.Fatalf("admin with admin token: expected 200, got %d", code)
	}
}

func TestMiddleware_MissingHeaderPassesThrough(t *testing.T) {
	tm := NewTokenManager("test-secret", 5*time.Minute)
	app := newAuthApp(tm, testLoader())

	if code := authedRequest(t, app, "/public", ""); code != http.StatusOK {
		t.Fatalf("public without header: expected 200, got %d", code)
	}
	if code := authedRequest(t, app, "/admin", ""); code != http.StatusUnauthorized {
		t.Fatalf("admin without header: expected 401, got %d", code)
	}
}

func TestMiddleware_RejectionsAreUniform(t *testing.T) {
	tm := NewTokenManager("test-secret", 5*time.Minute)
	app := newAuthApp(tm, testLoader())

	otherSecret, _, err := NewTokenManager("other-secret", 5*time.Minute).Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	unknownSubject, _, err := tm.Issue("nobody")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Missing, malformed, forged and unresolvable tokens all collapse to the
	// same opaque 401.
	cases := map[string]string{
		"missing":         "",
		"garbage":         "not-a-token",
		"forged":          otherSecret,
		"unknown subject": unknownSubject,
	}
	for name, token := range cases {
		if code := authedRequest(t, app, "/admin", token); code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, code)
		}
	}
}

func TestMiddleware_InactiveUserStaysUnauthenticated(t *testing.T) {
	tm := NewTokenManager("test-secret", 5*time.Minute)
	loader := testLoader()
	loader.users["u1"].Status = domain.UserStatusInactive
	app := newAuthApp(tm, loader)

	token, _, err := tm.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if code := authedRequest(t, app, "/admin", token); code != http.StatusUnauthorized {
		t.Fatalf("inactive user: expected 401, got %d", code)
	}
}

func TestMiddleware_RoleRevocationIsImmediate(t *testing.T) {
	tm := NewTokenManager("test-secret", 5*time.Minute)
	loader := testLoader()
	app := newAuthApp(tm, loader)

	token, _, err := tm.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if code := authedRequest(t, app, "/admin", token); code != http.StatusOK {
		t.Fatalf("before revocation: expected 200, got %d", code)
	}

	// Strip the role; the still-unexpired token must lose access on the very
	// next request.
	loader.users["u1"].Roles = nil
	if code := authedRequest(t, app, "/admin", token); code != http.StatusForbidden {
		t.Fatalf("after revocation: expected 403, got %d", code)
	}
}
