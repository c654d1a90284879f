package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// maxAccountDepth bounds the upward walk of the parent chain.
const maxAccountDepth = 64

// accountService implements the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	companyRepo portsrepo.CompanyReader
	locks       *CompanyLocks
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountAuthorizer sets the role authorizer of the account service.
func WithAccountAuthorizer(authorizer portssvc.UserAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.Authorizer = authorizer
	}
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, companyRepo portsrepo.CompanyReader, locks *CompanyLocks, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: accountRepo,
		companyRepo: companyRepo,
		locks:       locks,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// Resolve looks the reference up as an account ID first and as a code second.
func (s *accountService) Resolve(ctx context.Context, companyID string, codeOrID string) (*domain.Account, error) {
	ref := strings.TrimSpace(codeOrID)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty account reference", apperrors.ErrNotFound)
	}

	acc, err := s.accountRepo.FindAccountByID(ctx, ref)
	if err == nil && acc.CompanyID == companyID {
		return acc, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	acc, err = s.accountRepo.FindAccountByCode(ctx, companyID, ref)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %q in company %s", apperrors.ErrNotFound, ref, companyID)
		}
		return nil, err
	}
	return acc, nil
}

func (s *accountService) Children(ctx context.Context, companyID string, accountID string) ([]domain.Account, error) {
	return s.accountRepo.ListChildren(ctx, companyID, accountID)
}

func (s *accountService) IsActive(ctx context.Context, companyID string, accountID string) (bool, error) {
	acc, err := s.Resolve(ctx, companyID, accountID)
	if err != nil {
		return false, err
	}
	return acc.IsActive, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return acc, nil
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string, userID string) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleViewer); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		return nil, fmt.Errorf("company %s: %w", companyID, err)
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleAccountant); err != nil {
		return nil, err
	}

	accountType, err := domain.ParseAccountType(string(req.AccountType))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if _, err := s.companyRepo.FindCompanyByID(ctx, req.CompanyID); err != nil {
		return nil, fmt.Errorf("company %s: %w", req.CompanyID, err)
	}

	now := time.Now().UTC()
	acc := domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   req.CompanyID,
		Code:        code,
		Name:        name,
		AccountType: accountType,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	unlock := s.locks.Lock(req.CompanyID)
	defer unlock()

	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.Resolve(ctx, req.CompanyID, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %q not found in company", apperrors.ErrValidation, *req.ParentAccountID)
			}
			return nil, err
		}
		// a new account has no descendants
		if err := s.checkParentChain(ctx, acc.AccountID, parent.AccountID, 0); err != nil {
			return nil, err
		}
		acc.ParentAccountID = parent.AccountID
	}

	if err := s.accountRepo.SaveAccount(ctx, acc); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("company_id", acc.CompanyID),
			slog.String("account_code", acc.Code))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", acc.AccountID),
		slog.String("company_id", acc.CompanyID),
		slog.String("account_code", acc.Code),
		slog.String("account_type", string(acc.AccountType)))
	return &acc, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, domain.RoleAccountant); err != nil {
		return nil, err
	}

	current, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(current.CompanyID)
	defer unlock()

	// re-read under the lock so concurrent chart edits are not lost
	current, err = s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	updated := *current

	if req.AccountType != nil && *req.AccountType != current.AccountType {
		return nil, fmt.Errorf("%w: account type cannot change from %s to %s", apperrors.ErrValidation, current.AccountType, *req.AccountType)
	}
	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: account code cannot be empty", apperrors.ErrValidation)
		}
		updated.Code = code
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
		}
		updated.Name = name
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}
	if req.ParentAccountID != nil {
		if *req.ParentAccountID == "" {
			updated.ParentAccountID = ""
		} else {
			parent, err := s.Resolve(ctx, current.CompanyID, *req.ParentAccountID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: parent account %q not found in company", apperrors.ErrValidation, *req.ParentAccountID)
				}
				return nil, err
			}
			below, err := s.subtreeHeight(ctx, current.CompanyID, current.AccountID)
			if err != nil {
				return nil, err
			}
			if err := s.checkParentChain(ctx, current.AccountID, parent.AccountID, below); err != nil {
				return nil, err
			}
			updated.ParentAccountID = parent.AccountID
		}
	}

	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return &updated, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	inactive := false
	_, err := s.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{IsActive: &inactive}, userID)
	return err
}

// checkParentChain walks upward from parentID and fails when it reaches accountID
// or when the deepest of the account's descendants, below levels under it, would
// sit deeper than maxAccountDepth levels.
func (s *accountService) checkParentChain(ctx context.Context, accountID, parentID string, below int) error {
	if parentID == accountID {
		return fmt.Errorf("%w: an account cannot be its own parent", apperrors.ErrValidation)
	}
	levels := 1 + below
	for cursor := parentID; cursor != ""; {
		if cursor == accountID {
			return fmt.Errorf("%w: parent assignment would create a cycle", apperrors.ErrValidation)
		}
		levels++
		if levels > maxAccountDepth {
			return fmt.Errorf("%w: account hierarchy deeper than %d levels", apperrors.ErrValidation, maxAccountDepth)
		}
		node, err := s.accountRepo.FindAccountByID(ctx, cursor)
		if err != nil {
			return err
		}
		cursor = node.ParentAccountID
	}
	return nil
}

// subtreeHeight counts the levels of descendants under accountID; a leaf has height 0.
func (s *accountService) subtreeHeight(ctx context.Context, companyID, accountID string) (int, error) {
	height := 0
	for level := []string{accountID}; height < maxAccountDepth; height++ {
		var next []string
		for _, id := range level {
			children, err := s.accountRepo.ListChildren(ctx, companyID, id)
			if err != nil {
				return 0, err
			}
			for _, c := range children {
				next = append(next, c.AccountID)
			}
		}
		if len(next) == 0 {
			break
		}
		level = next
	}
	return height, nil
}
