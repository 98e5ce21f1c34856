package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockaudit/internal/common"
	"stockaudit/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockStockTakeRepository struct {
	mock.Mock
}

func (m *MockStockTakeRepository) Create(ctx context.Context, stockTake *models.StockTake) error {
	args := m.Called(ctx, stockTake)
	return args.Error(0)
}

func (m *MockStockTakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StockTake, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTake), args.Error(1)
}

func (m *MockStockTakeRepository) FindOpen(ctx context.Context, companyID, warehouseID uuid.UUID) (*models.StockTake, error) {
	args := m.Called(ctx, companyID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTake), args.Error(1)
}

func (m *MockStockTakeRepository) Close(ctx context.Context, id uuid.UUID) (*models.StockTake, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTake), args.Error(1)
}

func (m *MockStockTakeRepository) List(ctx context.Context, filter *models.StockTakeFilter) ([]*models.StockTake, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockTake), args.Error(1)
}

func (m *MockStockTakeRepository) ListOpenBefore(ctx context.Context, cutoff string) ([]*models.StockTake, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockTake), args.Error(1)
}

type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) ManagerCanActOnWarehouse(ctx context.Context, managerID, warehouseID uuid.UUID) bool {
	args := m.Called(ctx, managerID, warehouseID)
	return args.Bool(0)
}

func (m *MockAccessService) ManagerGrantExists(ctx context.Context, managerID, companyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, managerID, companyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessService) CounterGrantExists(ctx context.Context, email string, companyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, companyID)
	return args.Bool(0), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetActiveStockTake(ctx context.Context, companyID, warehouseID uuid.UUID) (*models.StockTake, error) {
	args := m.Called(ctx, companyID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockTake), args.Error(1)
}

func (m *MockCacheService) SetActiveStockTake(ctx context.Context, stockTake *models.StockTake, ttl time.Duration) error {
	args := m.Called(ctx, stockTake, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteActiveStockTake(ctx context.Context, companyID, warehouseID uuid.UUID) error {
	args := m.Called(ctx, companyID, warehouseID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) GenerateStockTakeReport(ctx context.Context, stockTake *models.StockTake) error {
	args := m.Called(ctx, stockTake)
	return args.Error(0)
}

func (m *MockReportService) ReportURL(ctx context.Context, stockTakeID uuid.UUID) (string, error) {
	args := m.Called(ctx, stockTakeID)
	return args.String(0), args.Error(1)
}

type StockTakeServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockStockTakeRepository
	mockAccess *MockAccessService
	mockCache  *MockCacheService
	mockReport *MockReportService
	service    StockTakeService
}

func (suite *StockTakeServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockStockTakeRepository{}
	suite.mockAccess = &MockAccessService{}
	suite.mockCache = &MockCacheService{}
	suite.mockReport = &MockReportService{}
	suite.service = NewStockTakeService(suite.mockRepo, suite.mockAccess, suite.mockCache, suite.mockReport)

	suite.mockRepo.Test(suite.T())
	suite.mockAccess.Test(suite.T())
	suite.mockCache.Test(suite.T())
	suite.mockReport.Test(suite.T())
}

func (suite *StockTakeServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAccess.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
	suite.mockReport.AssertExpectations(suite.T())
}

func TestStockTakeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockTakeServiceTestSuite))
}

func (suite *StockTakeServiceTestSuite) TestOpen_Anonymous() {
	ctx := context.Background()
	companyID := uuid.New()
	warehouseID := uuid.New()

	suite.mockRepo.On("Create", ctx, mock.AnythingOfType("*models.StockTake")).Return(nil).Run(func(args mock.Arguments) {
		st := args.Get(1).(*models.StockTake)
		assert.Equal(suite.T(), companyID, st.CompanyID)
		assert.Equal(suite.T(), warehouseID, st.WarehouseID)
		assert.Nil(suite.T(), st.OpenedByManagerID)
		assert.NotEqual(suite.T(), uuid.Nil, st.ID)
	})
	created := &models.StockTake{
		ID:          uuid.New(),
		CompanyID:   companyID,
		WarehouseID: warehouseID,
		Status:      models.StockTakeStatusOpen,
		OpenedAt:    time.Now(),
	}
	suite.mockRepo.On("GetByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(created, nil)
	suite.mockCache.On("SetActiveStockTake", ctx, created, 5*time.Minute).Return(nil)

	stockTake, err := suite.service.Open(ctx, companyID, warehouseID, nil, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), created, stockTake)
}

func (suite *StockTakeServiceTestSuite) TestOpen_ManagerInScope() {
	ctx := context.Background()
	companyID := uuid.New()
	warehouseID := uuid.New()
	managerID := uuid.New()

	suite.mockAccess.On("ManagerCanActOnWarehouse", ctx, managerID, warehouseID).Return(true)
	suite.mockRepo.On("Create", ctx, mock.AnythingOfType("*models.StockTake")).Return(nil).Run(func(args mock.Arguments) {
		st := args.Get(1).(*models.StockTake)
		assert.Equal(suite.T(), &managerID, st.OpenedByManagerID)
	})
	created := &models.StockTake{
		ID:                uuid.New(),
		CompanyID:         companyID,
		WarehouseID:       warehouseID,
		OpenedByManagerID: &managerID,
		Status:            models.StockTakeStatusOpen,
	}
	suite.mockRepo.On("GetByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(created, nil)
	suite.mockCache.On("SetActiveStockTake", ctx, created, 5*time.Minute).Return(nil)

	stockTake, err := suite.service.Open(ctx, companyID, warehouseID, &managerID, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), &managerID, stockTake.OpenedByManagerID)
}

func (suite *StockTakeServiceTestSuite) TestOpen_ManagerOutOfScope() {
	ctx := context.Background()
	warehouseID := uuid.New()
	managerID := uuid.New()

	suite.mockAccess.On("ManagerCanActOnWarehouse", ctx, managerID, warehouseID).Return(false)

	stockTake, err := suite.service.Open(ctx, uuid.New(), warehouseID, &managerID, nil)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidManager)
	assert.Nil(suite.T(), stockTake)
}

func (suite *StockTakeServiceTestSuite) TestOpen_AlreadyOpen() {
	ctx := context.Background()

	suite.mockRepo.On("Create", ctx, mock.AnythingOfType("*models.StockTake")).Return(common.ErrStockTakeAlreadyOpen)

	stockTake, err := suite.service.Open(ctx, uuid.New(), uuid.New(), nil, nil)
	assert.ErrorIs(suite.T(), err, common.ErrStockTakeAlreadyOpen)
	assert.Nil(suite.T(), stockTake)
}

func (suite *StockTakeServiceTestSuite) TestOpen_CacheFailureIgnored() {
	ctx := context.Background()
	created := &models.StockTake{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		WarehouseID: uuid.New(),
		Status:      models.StockTakeStatusOpen,
	}

	suite.mockRepo.On("Create", ctx, mock.AnythingOfType("*models.StockTake")).Return(nil)
	suite.mockRepo.On("GetByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(created, nil)
	suite.mockCache.On("SetActiveStockTake", ctx, created, 5*time.Minute).Return(errors.New("redis down"))

	stockTake, err := suite.service.Open(ctx, created.CompanyID, created.WarehouseID, nil, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), created, stockTake)
}

func (suite *StockTakeServiceTestSuite) TestClose_Success() {
	ctx := context.Background()
	closedAt := time.Now()
	closed := &models.StockTake{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		WarehouseID: uuid.New(),
		Status:      models.StockTakeStatusClosed,
		ClosedAt:    &closedAt,
	}

	suite.mockRepo.On("Close", ctx, closed.ID).Return(closed, nil)
	suite.mockCache.On("DeleteActiveStockTake", ctx, closed.CompanyID, closed.WarehouseID).Return(nil)
	suite.mockReport.On("GenerateStockTakeReport", ctx, closed).Return(nil)

	stockTake, err := suite.service.Close(ctx, closed.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StockTakeStatusClosed, stockTake.Status)
	assert.NotNil(suite.T(), stockTake.ClosedAt)
}

func (suite *StockTakeServiceTestSuite) TestClose_SecondCloseKeepsOriginalTimestamp() {
	ctx := context.Background()
	firstClose := time.Now().Add(-time.Hour)
	closed := &models.StockTake{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		WarehouseID: uuid.New(),
		Status:      models.StockTakeStatusClosed,
		ClosedAt:    &firstClose,
	}

	suite.mockRepo.On("Close", ctx, closed.ID).Return(closed, nil).Twice()
	suite.mockCache.On("DeleteActiveStockTake", ctx, closed.CompanyID, closed.WarehouseID).Return(nil).Twice()
	suite.mockReport.On("GenerateStockTakeReport", ctx, closed).Return(nil).Twice()

	first, err := suite.service.Close(ctx, closed.ID)
	assert.NoError(suite.T(), err)

	second, err := suite.service.Close(ctx, closed.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), first.ClosedAt, second.ClosedAt)
}

func (suite *StockTakeServiceTestSuite) TestClose_NotFound() {
	ctx := context.Background()
	id := uuid.New()

	suite.mockRepo.On("Close", ctx, id).Return((*models.StockTake)(nil), common.ErrNotFound)

	stockTake, err := suite.service.Close(ctx, id)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
	assert.Nil(suite.T(), stockTake)
}

func (suite *StockTakeServiceTestSuite) TestClose_ReportFailureDoesNotFailClose() {
	ctx := context.Background()
	closed := &models.StockTake{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		WarehouseID: uuid.New(),
		Status:      models.StockTakeStatusClosed,
	}

	suite.mockRepo.On("Close", ctx, closed.ID).Return(closed, nil)
	suite.mockCache.On("DeleteActiveStockTake", ctx, closed.CompanyID, closed.WarehouseID).Return(nil)
	suite.mockReport.On("GenerateStockTakeReport", ctx, closed).Return(errors.New("minio unreachable"))

	stockTake, err := suite.service.Close(ctx, closed.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), closed, stockTake)
}

func (suite *StockTakeServiceTestSuite) TestClose_NilReportService() {
	ctx := context.Background()
	closed := &models.StockTake{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		WarehouseID: uuid.New(),
		Status:      models.StockTakeStatusClosed,
	}

	service := NewStockTakeService(suite.mockRepo, suite.mockAccess, suite.mockCache, nil)
	suite.mockRepo.On("Close", ctx, closed.ID).Return(closed, nil)
	suite.mockCache.On("DeleteActiveStockTake", ctx, closed.CompanyID, closed.WarehouseID).Return(nil)

	stockTake, err := service.Close(ctx, closed.ID)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), stockTake)
}

func (suite *StockTakeServiceTestSuite) TestFindOpen_CacheHit() {
	ctx := context.Background()
	cached := &models.StockTake{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		WarehouseID: uuid.New(),
		Status:      models.StockTakeStatusOpen,
	}

	suite.mockCache.On("GetActiveStockTake", ctx, cached.CompanyID, cached.WarehouseID).Return(cached, nil)

	stockTake, err := suite.service.FindOpen(ctx, cached.CompanyID, cached.WarehouseID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, stockTake)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindOpen")
}

func (suite *StockTakeServiceTestSuite) TestFindOpen_CacheMissFallsThrough() {
	ctx := context.Background()
	companyID := uuid.New()
	warehouseID := uuid.New()
	open := &models.StockTake{
		ID:          uuid.New(),
		CompanyID:   companyID,
		WarehouseID: warehouseID,
		Status:      models.StockTakeStatusOpen,
	}

	suite.mockCache.On("GetActiveStockTake", ctx, companyID, warehouseID).Return((*models.StockTake)(nil), nil)
	suite.mockRepo.On("FindOpen", ctx, companyID, warehouseID).Return(open, nil)
	suite.mockCache.On("SetActiveStockTake", ctx, open, 5*time.Minute).Return(nil)

	stockTake, err := suite.service.FindOpen(ctx, companyID, warehouseID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), open, stockTake)
}

func (suite *StockTakeServiceTestSuite) TestFindOpen_NoneOpen() {
	ctx := context.Background()
	companyID := uuid.New()
	warehouseID := uuid.New()

	suite.mockCache.On("GetActiveStockTake", ctx, companyID, warehouseID).Return((*models.StockTake)(nil), nil)
	suite.mockRepo.On("FindOpen", ctx, companyID, warehouseID).Return((*models.StockTake)(nil), nil)

	stockTake, err := suite.service.FindOpen(ctx, companyID, warehouseID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), stockTake)
}

func (suite *StockTakeServiceTestSuite) TestList_AppliesPaginationDefaults() {
	ctx := context.Background()
	filter := &models.StockTakeFilter{Limit: 0, Offset: -1}

	suite.mockRepo.On("List", ctx, filter).Return([]*models.StockTake{}, nil).Run(func(args mock.Arguments) {
		f := args.Get(1).(*models.StockTakeFilter)
		assert.Equal(suite.T(), 50, f.Limit)
		assert.Equal(suite.T(), 0, f.Offset)
	})

	_, err := suite.service.List(ctx, filter)
	assert.NoError(suite.T(), err)
}
