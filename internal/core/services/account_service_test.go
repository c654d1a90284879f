package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	f   *ledgerFixture
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.f = newLedgerFixture(suite.T(), "USD")
}

func ptr[T any](v T) *T { return &v }

func (suite *AccountServiceTestSuite) create(code string, accountType domain.AccountType, parent string) (*domain.Account, error) {
	req := dto.CreateAccountRequest{
		CompanyID:   suite.f.company.CompanyID,
		Code:        code,
		Name:        "Account " + code,
		AccountType: accountType,
	}
	if parent != "" {
		req.ParentAccountID = &parent
	}
	return suite.f.svc.Account.CreateAccount(suite.ctx, req, testUserID)
}

func (suite *AccountServiceTestSuite) TestSeededChart() {
	accounts, err := suite.f.svc.Account.ListAccounts(suite.ctx, suite.f.company.CompanyID, testUserID)
	suite.Require().NoError(err)
	suite.Len(accounts, 16)
	suite.Equal("1000", accounts[0].Code)

	assets := suite.f.account(suite.T(), "1000")
	children, err := suite.f.svc.Account.Children(suite.ctx, suite.f.company.CompanyID, assets.AccountID)
	suite.Require().NoError(err)
	codes := make([]string, len(children))
	for i, c := range children {
		codes[i] = c.Code
	}
	suite.Equal([]string{"1010", "1200", "1500"}, codes)
}

func (suite *AccountServiceTestSuite) TestCreateAccount() {
	acc, err := suite.create("1020", domain.Asset, "1000")
	suite.Require().NoError(err)
	suite.True(acc.IsActive)
	suite.Equal(suite.f.account(suite.T(), "1000").AccountID, acc.ParentAccountID, "parent given by code resolves to its ID")

	active, err := suite.f.svc.Account.IsActive(suite.ctx, suite.f.company.CompanyID, "1020")
	suite.Require().NoError(err)
	suite.True(active)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	_, err := suite.create("1010", domain.Asset, "")
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownParent() {
	_, err := suite.create("1020", domain.Asset, "9999")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	_, err := suite.create("1020", domain.AccountType("CASH"), "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_TypeImmutable() {
	cash := suite.f.account(suite.T(), "1010")
	_, err := suite.f.svc.Account.UpdateAccount(suite.ctx, cash.AccountID, dto.UpdateAccountRequest{
		AccountType: ptr(domain.Liability),
	}, testUserID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// resending the same type is allowed
	updated, err := suite.f.svc.Account.UpdateAccount(suite.ctx, cash.AccountID, dto.UpdateAccountRequest{
		AccountType: ptr(domain.Asset),
		Name:        ptr("Cash at bank"),
	}, testUserID)
	suite.Require().NoError(err)
	suite.Equal("Cash at bank", updated.Name)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SelfParent() {
	cash := suite.f.account(suite.T(), "1010")
	_, err := suite.f.svc.Account.UpdateAccount(suite.ctx, cash.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: ptr(cash.AccountID),
	}, testUserID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Cycle() {
	assets := suite.f.account(suite.T(), "1000")
	_, err := suite.f.svc.Account.UpdateAccount(suite.ctx, assets.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: ptr("1010"),
	}, testUserID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// the chart is unchanged
	reloaded := suite.f.account(suite.T(), "1000")
	suite.False(reloaded.HasParent())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Reparent() {
	cash := suite.f.account(suite.T(), "1010")
	petty, err := suite.create("1011", domain.Asset, "")
	suite.Require().NoError(err)

	updated, err := suite.f.svc.Account.UpdateAccount(suite.ctx, petty.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: ptr(cash.AccountID),
	}, testUserID)
	suite.Require().NoError(err)
	suite.Equal(cash.AccountID, updated.ParentAccountID)

	children, err := suite.f.svc.Account.Children(suite.ctx, suite.f.company.CompanyID, cash.AccountID)
	suite.Require().NoError(err)
	suite.Len(children, 1)

	detached, err := suite.f.svc.Account.UpdateAccount(suite.ctx, petty.AccountID, dto.UpdateAccountRequest{
		ParentAccountID: ptr(""),
	}, testUserID)
	suite.Require().NoError(err)
	suite.False(detached.HasParent())
}

func (suite *AccountServiceTestSuite) TestDepthBound() {
	parent := ""
	var err error
	for i := 0; i < 64; i++ {
		var acc *domain.Account
		acc, err = suite.create(fmt.Sprintf("9%03d", i), domain.Expense, parent)
		suite.Require().NoError(err, "level %d", i)
		parent = acc.AccountID
	}
	_, err = suite.create("9999", domain.Expense, parent)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestDepthBound_CountsMovedSubtree() {
	// a 40-level chain and a separate 30-level chain fit on their own
	chain := func(prefix string, n int) (top, bottom string) {
		parent := ""
		for i := 0; i < n; i++ {
			acc, err := suite.create(fmt.Sprintf("%s%03d", prefix, i), domain.Expense, parent)
			suite.Require().NoError(err, "level %d", i)
			if top == "" {
				top = acc.AccountID
			}
			parent = acc.AccountID
		}
		return top, parent
	}
	_, deep := chain("8", 40)
	moved, _ := chain("7", 30)

	// hanging the second chain under the first would put its leaf at level 70
	_, err := suite.f.svc.Account.UpdateAccount(suite.ctx, moved, dto.UpdateAccountRequest{ParentAccountID: &deep}, testUserID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	acc, err := suite.f.svc.Account.GetAccountByID(suite.ctx, moved, testUserID)
	suite.Require().NoError(err)
	suite.Empty(acc.ParentAccountID)

	// the same subtree fits under a shallow parent
	shallow, err := suite.create("6000", domain.Expense, "")
	suite.Require().NoError(err)
	_, err = suite.f.svc.Account.UpdateAccount(suite.ctx, moved, dto.UpdateAccountRequest{ParentAccountID: &shallow.AccountID}, testUserID)
	suite.NoError(err)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_KeepsHistory() {
	suite.f.seedScenario(suite.T())
	rent := suite.f.account(suite.T(), "5300")
	suite.Require().NoError(suite.f.svc.Account.DeactivateAccount(suite.ctx, rent.AccountID, testUserID))

	active, err := suite.f.svc.Account.IsActive(suite.ctx, suite.f.company.CompanyID, rent.AccountID)
	suite.Require().NoError(err)
	suite.False(active)
	suite.Equal("1200.00", suite.f.balance(suite.T(), "5300", "2024-01-31"))
}

func (suite *AccountServiceTestSuite) TestResolve_ScopedToCompany() {
	_, err := suite.f.svc.Account.Resolve(suite.ctx, "another-company", suite.f.account(suite.T(), "1010").AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
