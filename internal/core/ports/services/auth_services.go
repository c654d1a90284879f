package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// TokenSvcFacade issues bearer tokens for authenticated users.
type TokenSvcFacade interface {
	// GenerateAccessToken returns a signed token for the user and its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
