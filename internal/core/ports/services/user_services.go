package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users. Requires the ADMIN role.
	ListUsers(ctx context.Context, limit, offset int, requestingUserID string) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser creates a new user. Requires the ADMIN role.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, requestingUserID string) (*domain.User, error)

	// EnsureAdmin creates the bootstrap administrator when no user with that email exists.
	EnsureAdmin(ctx context.Context, email, password string) error
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserAuthorizerSvc checks role-based permissions for service calls.
type UserAuthorizerSvc interface {
	// AuthorizeUserAction returns apperrors.ErrForbidden when the user lacks the required role.
	AuthorizeUserAction(ctx context.Context, userID string, requiredRole domain.UserRole) error
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
	UserAuthorizerSvc
}
