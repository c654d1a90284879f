package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Authorizer portssvc.UserAuthorizerSvc
}

// GetLogger gets the logger from context or returns the default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeUser checks that a user holds at least the required role.
// Without an authorizer every call is allowed, which is how the engine runs embedded.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID string, requiredRole domain.UserRole) error {
	if s.Authorizer == nil {
		return nil
	}
	if err := s.Authorizer.AuthorizeUserAction(ctx, userID, requiredRole); err != nil {
		s.LogDebug(ctx, "User not authorized",
			slog.String("user_id", userID),
			slog.String("required_role", string(requiredRole)),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
