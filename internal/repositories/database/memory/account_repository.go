package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// accountRepository stores accounts in an arena slice indexed by ID, by
// (company, code) and by parent, so parent links never hold pointers.
type accountRepository struct {
	mu       sync.RWMutex
	arena    []domain.Account
	byID     map[string]int
	byCode   map[string]int      // companyID + "/" + code
	children map[string][]string // parent account ID -> child IDs
}

func newAccountRepository() *accountRepository {
	return &accountRepository{
		byID:     make(map[string]int),
		byCode:   make(map[string]int),
		children: make(map[string][]string),
	}
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func codeKey(companyID, code string) string {
	return companyID + "/" + strings.ToUpper(code)
}

func (r *accountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[account.AccountID]; exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	key := codeKey(account.CompanyID, account.Code)
	if _, exists := r.byCode[key]; exists {
		return fmt.Errorf("%w: account code %s already used in company", apperrors.ErrDuplicate, account.Code)
	}
	r.arena = append(r.arena, account)
	idx := len(r.arena) - 1
	r.byID[account.AccountID] = idx
	r.byCode[key] = idx
	if account.HasParent() {
		r.children[account.ParentAccountID] = append(r.children[account.ParentAccountID], account.AccountID)
	}
	return nil
}

func (r *accountRepository) UpdateAccount(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	prev := r.arena[idx]

	newKey := codeKey(account.CompanyID, account.Code)
	oldKey := codeKey(prev.CompanyID, prev.Code)
	if newKey != oldKey {
		if _, taken := r.byCode[newKey]; taken {
			return fmt.Errorf("%w: account code %s already used in company", apperrors.ErrDuplicate, account.Code)
		}
		delete(r.byCode, oldKey)
		r.byCode[newKey] = idx
	}

	if prev.ParentAccountID != account.ParentAccountID {
		if prev.HasParent() {
			r.children[prev.ParentAccountID] = slices.DeleteFunc(r.children[prev.ParentAccountID], func(id string) bool {
				return id == account.AccountID
			})
		}
		if account.HasParent() {
			r.children[account.ParentAccountID] = append(r.children[account.ParentAccountID], account.AccountID)
		}
	}
	r.arena[idx] = account
	return nil
}

func (r *accountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	acc := r.arena[idx]
	return &acc, nil
}

func (r *accountRepository) FindAccountByCode(_ context.Context, companyID string, code string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byCode[codeKey(companyID, code)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	acc := r.arena[idx]
	return &acc, nil
}

func (r *accountRepository) ListAccounts(_ context.Context, companyID string) ([]domain.Account, error) {
	r.mu.RLock()
	out := make([]domain.Account, 0)
	for _, acc := range r.arena {
		if acc.CompanyID == companyID {
			out = append(out, acc)
		}
	}
	r.mu.RUnlock()
	sortByCode(out)
	return out, nil
}

func (r *accountRepository) ListChildren(_ context.Context, companyID string, parentAccountID string) ([]domain.Account, error) {
	r.mu.RLock()
	ids := r.children[parentAccountID]
	out := make([]domain.Account, 0, len(ids))
	for _, id := range ids {
		if acc := r.arena[r.byID[id]]; acc.CompanyID == companyID {
			out = append(out, acc)
		}
	}
	r.mu.RUnlock()
	sortByCode(out)
	return out, nil
}

func sortByCode(accounts []domain.Account) {
	slices.SortFunc(accounts, func(a, b domain.Account) int { return strings.Compare(a.Code, b.Code) })
}
