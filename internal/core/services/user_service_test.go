package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/utils"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
	admin        *domain.User
	viewer       *domain.User
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
	suite.admin = &domain.User{UserID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true}
	suite.viewer = &domain.User{UserID: "viewer-1", Email: "viewer@example.com", Role: domain.RoleViewer, IsActive: true}
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	req := dto.CreateUserRequest{
		Email:    "New.Accountant@Example.com ",
		Name:     "New Accountant",
		Password: "password123",
		Role:     domain.RoleAccountant,
	}

	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.admin.UserID).Return(suite.admin, nil).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == "new.accountant@example.com" &&
			user.Role == domain.RoleAccountant &&
			user.PasswordHash != "" && user.PasswordHash != req.Password
	})).Return(nil).Once()

	created, err := suite.service.CreateUser(suite.ctx, req, suite.admin.UserID)

	suite.Require().NoError(err)
	suite.NotEmpty(created.UserID)
	suite.True(created.IsActive)
	suite.Equal(suite.admin.UserID, created.CreatedBy)
	suite.True(utils.CheckPasswordHash(req.Password, created.PasswordHash))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_Forbidden() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.viewer.UserID).Return(suite.viewer, nil).Once()

	_, err := suite.service.CreateUser(suite.ctx, dto.CreateUserRequest{
		Email: "x@example.com", Name: "X", Password: "password123", Role: domain.RoleViewer,
	}, suite.viewer.UserID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_SaveError() {
	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.admin.UserID).Return(suite.admin, nil).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	created, err := suite.service.CreateUser(suite.ctx, dto.CreateUserRequest{
		Email: "dup@example.com", Name: "Dup", Password: "password123", Role: domain.RoleViewer,
	}, suite.admin.UserID)

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	hash, err := utils.HashPassword("correct horse")
	suite.Require().NoError(err)
	user := &domain.User{UserID: "u-1", Email: "u@example.com", Role: domain.RoleViewer, PasswordHash: hash, IsActive: true}

	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "u@example.com").Return(user, nil)
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	got, err := suite.service.AuthenticateUser(suite.ctx, "U@example.com", "correct horse")
	suite.Require().NoError(err)
	suite.Equal("u-1", got.UserID)

	_, err = suite.service.AuthenticateUser(suite.ctx, "u@example.com", "wrong")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = suite.service.AuthenticateUser(suite.ctx, "nobody@example.com", "whatever")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthorizeUserAction() {
	inactive := &domain.User{UserID: "gone", Role: domain.RoleAdmin, IsActive: false}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.admin.UserID).Return(suite.admin, nil)
	suite.mockUserRepo.On("FindUserByID", suite.ctx, suite.viewer.UserID).Return(suite.viewer, nil)
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "gone").Return(inactive, nil)
	suite.mockUserRepo.On("FindUserByID", suite.ctx, "ghost").Return(nil, apperrors.ErrNotFound)

	suite.NoError(suite.service.AuthorizeUserAction(suite.ctx, suite.admin.UserID, domain.RoleAccountant))
	suite.NoError(suite.service.AuthorizeUserAction(suite.ctx, suite.viewer.UserID, domain.RoleViewer))
	suite.ErrorIs(suite.service.AuthorizeUserAction(suite.ctx, suite.viewer.UserID, domain.RoleAccountant), apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.AuthorizeUserAction(suite.ctx, "gone", domain.RoleViewer), apperrors.ErrForbidden)
	suite.ErrorIs(suite.service.AuthorizeUserAction(suite.ctx, "ghost", domain.RoleViewer), apperrors.ErrUnauthorized)
	suite.ErrorIs(suite.service.AuthorizeUserAction(suite.ctx, "", domain.RoleViewer), apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestEnsureAdmin() {
	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "root@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == "root@example.com" && user.Role == domain.RoleAdmin
	})).Return(nil).Once()

	suite.NoError(suite.service.EnsureAdmin(suite.ctx, "root@example.com", "bootstrap-pass"))

	suite.mockUserRepo.On("FindUserByEmail", suite.ctx, "root@example.com").Return(suite.admin, nil).Once()
	suite.NoError(suite.service.EnsureAdmin(suite.ctx, "root@example.com", "bootstrap-pass"))

	suite.NoError(suite.service.EnsureAdmin(suite.ctx, "", ""), "no bootstrap admin configured")
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func TestTokenService_GenerateAccessToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret", JWTExpiryDuration: time.Hour, JWTIssuer: "ledger-test"}
	svc := services.NewTokenService(cfg)
	user := &domain.User{UserID: "u-1", Role: domain.RoleAccountant}

	token, expiresAt, err := svc.GenerateAccessToken(context.Background(), user)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := utils.ParseAndValidateJWT(token, cfg.JWTSecret)
	assert.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, string(domain.RoleAccountant), claims.Role)
	assert.Equal(t, "ledger-test", claims.Issuer)
}
