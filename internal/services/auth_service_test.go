package services

import (
	"context"
	"testing"

	"stockaudit/internal/common"
	"stockaudit/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type MockManagerRepository struct {
	mock.Mock
}

func (m *MockManagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Manager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manager), args.Error(1)
}

func (m *MockManagerRepository) GetByEmail(ctx context.Context, email string) (*models.Manager, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manager), args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockManagerRepository
	service  AuthService
	manager  *models.Manager
	password string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockManagerRepository{}
	suite.service = NewAuthService(suite.mockRepo, "session-secret")

	suite.password = "correct horse battery staple"
	hash, err := bcrypt.GenerateFromPassword([]byte(suite.password), bcrypt.MinCost)
	assert.NoError(suite.T(), err)
	suite.manager = &models.Manager{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		WarehouseID:  uuid.New(),
		Email:        "manager@example.com",
		Name:         "Test Manager",
		PasswordHash: string(hash),
		Active:       true,
	}

	suite.mockRepo.Test(suite.T())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()

	suite.mockRepo.On("GetByEmail", ctx, suite.manager.Email).Return(suite.manager, nil)

	resp, manager, err := suite.service.Login(ctx, suite.manager.Email, suite.password)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.manager, manager)
	assert.NotEmpty(suite.T(), resp.Token)
	assert.Equal(suite.T(), int64(86400), resp.ExpiresIn)

	// Token must be a session JWT carrying the manager id as subject.
	parsed, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("session-secret"), nil
	})
	assert.NoError(suite.T(), err)
	subject, err := parsed.Claims.GetSubject()
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.manager.ID.String(), subject)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()

	suite.mockRepo.On("GetByEmail", ctx, suite.manager.Email).Return(suite.manager, nil)

	resp, manager, err := suite.service.Login(ctx, suite.manager.Email, "wrong")
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
	assert.Nil(suite.T(), resp)
	assert.Nil(suite.T(), manager)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	ctx := context.Background()

	suite.mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return((*models.Manager)(nil), common.ErrNotFound)

	resp, manager, err := suite.service.Login(ctx, "nobody@example.com", suite.password)
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
	assert.Nil(suite.T(), resp)
	assert.Nil(suite.T(), manager)
}

func (suite *AuthServiceTestSuite) TestLogin_DeactivatedManager() {
	ctx := context.Background()
	suite.manager.Active = false

	suite.mockRepo.On("GetByEmail", ctx, suite.manager.Email).Return(suite.manager, nil)

	resp, manager, err := suite.service.Login(ctx, suite.manager.Email, suite.password)
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
	assert.Nil(suite.T(), resp)
	assert.Nil(suite.T(), manager)
}

func (suite *AuthServiceTestSuite) TestLogin_NoPasswordSet() {
	ctx := context.Background()
	suite.manager.PasswordHash = ""

	suite.mockRepo.On("GetByEmail", ctx, suite.manager.Email).Return(suite.manager, nil)

	resp, manager, err := suite.service.Login(ctx, suite.manager.Email, suite.password)
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
	assert.Nil(suite.T(), resp)
	assert.Nil(suite.T(), manager)
}
