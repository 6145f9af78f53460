package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// UserService coordinates registration, login and account flows.
type UserService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// UserDependencies encapsulates collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	BcryptCost int
	Logger     *zap.Logger
	Now        func() time.Time
}

// RegisterUserInput describes a new account.
type RegisterUserInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.UserRole
}

// Session is the outcome of a successful login.
type Session struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		bcryptCost: deps.BcryptCost,
		logger:     loggerOrNop(deps.Logger),
		now:        clockOrDefault(deps.Now),
	}
}

// Register creates an account. Role defaults to ASSOCIATE.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (*Result[*domain.User], error) {
	email := normalizeEmail(input.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict(fmt.Sprintf("There is already an user registered with the e-mail %s", email), nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.UserRoleAssociate
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := domain.NewUser(email, hash, strings.TrimSpace(input.Name), role, s.now())
	if err := validationError("User validation failed", domain.ValidateUser(user)); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_uuid", user.UUID), zap.String("role", string(user.Role)))
	return newResult(user, "User created successfully."), nil
}

// Authenticate verifies credentials and issues an access token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*Result[*Session], error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized("Invalid email or password.")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("Invalid email or password.")
	}

	token, exp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return newResult(&Session{User: user, Token: token, ExpiresAt: exp}, "User authenticated successfully."), nil
}

func (s *UserService) GetByUUID(ctx context.Context, userUUID string) (*Result[*domain.User], error) {
	if err := requireUUIDs("Invalid user UUID format", userUUID); err != nil {
		return nil, err
	}
	user, err := s.users.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	return newResult(user, "User found."), nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*Result[*domain.User], error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return newResult(user, "User found."), nil
}

func (s *UserService) GetUsersByWorkspace(ctx context.Context, workspaceUUID string) (*Result[[]domain.User], error) {
	if err := requireUUIDs("Invalid workspace UUID format", workspaceUUID); err != nil {
		return nil, err
	}
	users, err := s.users.FindByWorkspace(ctx, workspaceUUID)
	if err != nil {
		return nil, err
	}
	return newResult(users, "Users for workspace retrieved successfully."), nil
}

// ValidateUserPermissions reports whether the user's role satisfies required.
func (s *UserService) ValidateUserPermissions(ctx context.Context, userUUID string, required domain.UserRole) (*Result[bool], error) {
	res, err := s.GetByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if auth.RoleSatisfies(res.Data.Role, required) {
		return newResult(true, "User has required permissions."), nil
	}
	return newResult(false, "User does not have required permissions."), nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userUUID, currentPassword, newPassword string) (*Result[*domain.User], error) {
	if err := requireUUIDs("Invalid user UUID format", userUUID); err != nil {
		return nil, err
	}
	user, err := s.users.FindByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return nil, apperrors.NewUnauthorized("Password is wrong")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	user.MarkUpdated(s.now())
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return newResult(user, "Password changed successfully."), nil
}

// Tokens exposes the token manager for middleware usage.
func (s *UserService) Tokens() *auth.TokenManager {
	return s.tokens
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
