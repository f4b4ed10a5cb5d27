package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/config"
	"github.com/spec-kit/course-service/internal/domain"
)

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
	}}
}

func seedUser(t *testing.T, users *fakeUserRepo, email, password string, status domain.UserStatus, roles ...domain.Role) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return users.add(&domain.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
		Status:       status,
		Roles:        roles,
	})
}

func TestAuthService_LoginIssuesValidToken(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "a@x.com", "p1", domain.UserStatusActive, knownRoles[2])
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, RoleRepo: fakeRoleRepo{}})

	user, token, exp, err := svc.Login(context.Background(), "a@x.com", "p1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if exp.IsZero() {
		t.Fatal("missing expiry")
	}

	subject, err := svc.TokenManager().Validate(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if subject != user.ID {
		t.Fatalf("token subject %q, want %q", subject, user.ID)
	}
}

func TestAuthService_LoginFailuresAreGeneric(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "a@x.com", "p1", domain.UserStatusActive)
	seedUser(t, users, "inactive@x.com", "p1", domain.UserStatusInactive)
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, RoleRepo: fakeRoleRepo{}})

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown identifier", "nobody@x.com", "p1"},
		{"wrong password", "a@x.com", "wrong"},
		{"inactive account", "inactive@x.com", "p1"},
	}
	for _, tc := range cases {
		_, token, _, err := svc.Login(context.Background(), tc.email, tc.password)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
		if token != "" {
			t.Fatalf("%s: token issued on failed login", tc.name)
		}
	}
}

func TestAuthService_RegisterGrantsDefaultRole(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, RoleRepo: fakeRoleRepo{}})

	user, token, _, err := svc.Register(context.Background(), "New", "User", "new@x.com", "p1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !user.HasRole(domain.RoleStudent) {
		t.Fatalf("expected default STUDENT role, got %v", user.RoleLabels())
	}
	if _, err := svc.TokenManager().Validate(token); err != nil {
		t.Fatalf("registration token does not validate: %v", err)
	}

	// The account is immediately usable for login.
	if _, _, _, err := svc.Login(context.Background(), "new@x.com", "p1"); err != nil {
		t.Fatalf("login after register: %v", err)
	}
}

func TestAuthService_RegisterRejectsDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(t, users, "a@x.com", "p1", domain.UserStatusActive)
	svc := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, RoleRepo: fakeRoleRepo{}})

	if _, _, _, err := svc.Register(context.Background(), "Dup", "User", "a@x.com", "p2"); err == nil {
		t.Fatal("expected duplicate email rejection")
	}
}
