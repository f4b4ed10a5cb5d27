package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/repository"
	"github.com/spec-kit/course-service/pkg/util"
)

// UserService coordinates account administration and role management.
type UserService struct {
	users       repository.UserRepository
	roles       repository.RoleRepository
	enrollments repository.EnrollmentRepository
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// UserDependencies bundles repositories for the user service.
type UserDependencies struct {
	UserRepo       repository.UserRepository
	RoleRepo       repository.RoleRepository
	EnrollmentRepo repository.EnrollmentRepository
	Dispatcher     events.Dispatcher
}

// UserCreateInput describes the admin user-creation payload.
type UserCreateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Roles     []string
}

// UserUpdateInput describes a profile update.
type UserUpdateInput struct {
	FirstName string
	LastName  string
	Email     string
	Status    string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies, bcryptCost int) *UserService {
	return &UserService{
		users:       deps.UserRepo,
		roles:       deps.RoleRepo,
		enrollments: deps.EnrollmentRepo,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  bcryptCost,
	}
}

// Create provisions an account with an explicit role set.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, util.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	roles := make([]domain.Role, 0, len(input.Roles))
	for _, raw := range input.Roles {
		label, err := domain.ParseRoleLabel(raw)
		if err != nil {
			return nil, util.NewValidationError(err.Error(), map[string]any{"role": raw})
		}
		role, err := s.roles.GetByLabel(ctx, label)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	for _, role := range roles {
		if err := s.users.GrantRole(ctx, user.ID, role.ID); err != nil {
			return nil, err
		}
	}
	user.Roles = roles
	return user, nil
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Get returns a single account with its role set.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// Update changes profile fields. The password hash is left untouched.
func (s *UserService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && input.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
			return nil, util.NewConflict("email already registered", map[string]any{"email": input.Email})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user.Email = input.Email
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Status != "" {
		switch domain.UserStatus(input.Status) {
		case domain.UserStatusActive, domain.UserStatusInactive:
			user.Status = domain.UserStatus(input.Status)
		default:
			return nil, util.NewValidationError("unknown status", map[string]any{"status": input.Status})
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Enrollments are never cascade-deleted: the
// account must be free of them first.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.enrollments.CountByUser(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return util.NewConflict("user still has enrollments", map[string]any{"enrollments": count})
	}
	return s.users.Delete(ctx, id)
}

// GrantRole adds a role to the account's set. Granting a role the account
// already holds is a no-op.
func (s *UserService) GrantRole(ctx context.Context, userID, rawLabel string) (*domain.User, error) {
	user, label, role, err := s.resolveRoleChange(ctx, userID, rawLabel)
	if err != nil {
		return nil, err
	}
	if user.HasRole(label) {
		return user, nil
	}
	if err := s.users.GrantRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}
	user.Roles = append(user.Roles, *role)

	s.publish(ctx, events.EventRoleGranted, user.ID, events.RoleChangedPayload{Role: label})
	return user, nil
}

// RevokeRole removes a role from the account's set. Takes effect on the
// subject's very next request since roles are re-resolved per request.
func (s *UserService) RevokeRole(ctx context.Context, userID, rawLabel string) (*domain.User, error) {
	user, label, role, err := s.resolveRoleChange(ctx, userID, rawLabel)
	if err != nil {
		return nil, err
	}
	if !user.HasRole(label) {
		return user, nil
	}
	if err := s.users.RevokeRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}
	kept := user.Roles[:0]
	for _, r := range user.Roles {
		if r.Label != label {
			kept = append(kept, r)
		}
	}
	user.Roles = kept

	s.publish(ctx, events.EventRoleRevoked, user.ID, events.RoleChangedPayload{Role: label})
	return user, nil
}

// GetRoles returns the account's current role set.
func (s *UserService) GetRoles(ctx context.Context, userID string) ([]domain.Role, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Roles, nil
}

func (s *UserService) resolveRoleChange(ctx context.Context, userID, rawLabel string) (*domain.User, domain.RoleLabel, *domain.Role, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, "", nil, err
	}
	label, err := domain.ParseRoleLabel(rawLabel)
	if err != nil {
		return nil, "", nil, util.NewValidationError(err.Error(), map[string]any{"role": rawLabel})
	}
	role, err := s.roles.GetByLabel(ctx, label)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil, util.NewNotFound("role", map[string]any{"role": rawLabel})
		}
		return nil, "", nil, err
	}
	return user, label, role, nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
