package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockaudit/internal/common"
	"stockaudit/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var binCountRows = []string{"id", "stock_take_id", "bin_location_id", "item_code", "item_name", "quantity", "counted_by_manager_id", "submitted", "created_at", "submitted_at"}

type BinCountRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      BinCountRepository
	stockTake *models.StockTake
	binID     uuid.UUID
	context   context.Context
}

func (suite *BinCountRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewBinCountRepository(mock)
	suite.stockTake = &models.StockTake{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		WarehouseID: uuid.New(),
		Status:      models.StockTakeStatusOpen,
	}
	suite.binID = uuid.New()
	suite.context = context.Background()
}

func (suite *BinCountRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestBinCountRepoTestSuite(t *testing.T) {
	suite.Run(t, new(BinCountRepoTestSuite))
}

func (suite *BinCountRepoTestSuite) stagedRow(itemCode string, quantity int) []any {
	return []any{uuid.New(), suite.stockTake.ID, suite.binID, itemCode, nil, quantity, nil, false, time.Now(), nil}
}

func (suite *BinCountRepoTestSuite) TestCreate_Success() {
	count := &models.BinLocationCount{
		ID:            uuid.New(),
		StockTakeID:   suite.stockTake.ID,
		BinLocationID: suite.binID,
		ItemCode:      "SKU-1",
		Quantity:      7,
	}

	suite.mock.ExpectExec(`
		INSERT INTO bin_location_counts \(id, stock_take_id, bin_location_id, item_code, item_name, quantity, counted_by_manager_id, submitted, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, false, NOW\(\)\)
	`).WithArgs(count.ID, count.StockTakeID, count.BinLocationID, count.ItemCode, count.ItemName, count.Quantity, count.CountedByManagerID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, count)
	assert.NoError(suite.T(), err)
}

func (suite *BinCountRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()

	suite.mock.ExpectQuery(`
		SELECT id, stock_take_id, bin_location_id, item_code, item_name, quantity, counted_by_manager_id, submitted, created_at, submitted_at
		FROM bin_location_counts
		WHERE id = \$1
	`).WithArgs(id).
		WillReturnRows(pgxmock.NewRows(binCountRows))

	count, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
	assert.Nil(suite.T(), count)
}

func (suite *BinCountRepoTestSuite) TestDeleteUnsubmitted_Success() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM bin_location_counts WHERE id = \$1 AND submitted = false`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.DeleteUnsubmitted(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *BinCountRepoTestSuite) TestDeleteUnsubmitted_Missing() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM bin_location_counts WHERE id = \$1 AND submitted = false`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectQuery(`SELECT submitted FROM bin_location_counts WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"submitted"}))

	err := suite.repo.DeleteUnsubmitted(suite.context, id)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *BinCountRepoTestSuite) TestDeleteUnsubmitted_AlreadySubmitted() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM bin_location_counts WHERE id = \$1 AND submitted = false`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	suite.mock.ExpectQuery(`SELECT submitted FROM bin_location_counts WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"submitted"}).AddRow(true))

	err := suite.repo.DeleteUnsubmitted(suite.context, id)
	assert.ErrorIs(suite.T(), err, common.ErrAlreadySubmitted)
}

func (suite *BinCountRepoTestSuite) TestSubmitBin_TwoCounts() {
	managerID := uuid.New()
	countDate := time.Now().Truncate(24 * time.Hour)
	createdAt := time.Now()

	suite.mock.ExpectBegin()

	rows := pgxmock.NewRows(binCountRows)
	rows.AddRow(suite.stagedRow("SKU-1", 4)...)
	rows.AddRow(suite.stagedRow("SKU-2", 9)...)
	suite.mock.ExpectQuery(`
		SELECT id, stock_take_id, bin_location_id, item_code, item_name, quantity, counted_by_manager_id, submitted, created_at, submitted_at
		FROM bin_location_counts
		WHERE bin_location_id = \$1 AND stock_take_id = \$2 AND submitted = false
		ORDER BY created_at ASC
		FOR UPDATE
	`).WithArgs(suite.binID, suite.stockTake.ID).
		WillReturnRows(rows)

	for i := 0; i < 2; i++ {
		suite.mock.ExpectQuery(`INSERT INTO stock_items`).
			WithArgs(pgxmock.AnyArg(), suite.stockTake.CompanyID, suite.stockTake.WarehouseID, suite.stockTake.ID, suite.binID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), &managerID).
			WillReturnRows(pgxmock.NewRows([]string{"count_date", "created_at"}).AddRow(countDate, createdAt))
		suite.mock.ExpectExec(`
			UPDATE bin_location_counts
			SET submitted = true, submitted_at = NOW\(\)
			WHERE id = \$1
		`).WithArgs(pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	}

	suite.mock.ExpectCommit()

	result, err := suite.repo.SubmitBin(suite.context, suite.stockTake, suite.binID, &managerID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, result.ItemsSubmitted)
	assert.Len(suite.T(), result.Items, 2)
	assert.Equal(suite.T(), "SKU-1", result.Items[0].ItemCode)
	assert.Equal(suite.T(), 4, result.Items[0].Quantity)
	assert.Equal(suite.T(), &managerID, result.Items[0].CountedByManagerID)
	assert.Equal(suite.T(), suite.stockTake.CompanyID, result.Items[0].CompanyID)
}

func (suite *BinCountRepoTestSuite) TestSubmitBin_NothingStaged() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.binID, suite.stockTake.ID).
		WillReturnRows(pgxmock.NewRows(binCountRows))
	suite.mock.ExpectRollback()

	result, err := suite.repo.SubmitBin(suite.context, suite.stockTake, suite.binID, nil)
	assert.ErrorIs(suite.T(), err, common.ErrNothingToSubmit)
	assert.Nil(suite.T(), result)
}

func (suite *BinCountRepoTestSuite) TestSubmitBin_InsertFailureRollsBack() {
	suite.mock.ExpectBegin()

	rows := pgxmock.NewRows(binCountRows)
	rows.AddRow(suite.stagedRow("SKU-1", 4)...)
	suite.mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(suite.binID, suite.stockTake.ID).
		WillReturnRows(rows)

	suite.mock.ExpectQuery(`INSERT INTO stock_items`).
		WithArgs(pgxmock.AnyArg(), suite.stockTake.CompanyID, suite.stockTake.WarehouseID, suite.stockTake.ID, suite.binID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	suite.mock.ExpectRollback()

	result, err := suite.repo.SubmitBin(suite.context, suite.stockTake, suite.binID, nil)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
}

func (suite *BinCountRepoTestSuite) TestList_SubmittedOnly() {
	filter := &models.BinCountFilter{
		StockTakeID:   &suite.stockTake.ID,
		SubmittedOnly: true,
		Limit:         50,
		Offset:        0,
	}

	rows := pgxmock.NewRows(binCountRows)
	rows.AddRow(uuid.New(), suite.stockTake.ID, suite.binID, "SKU-1", nil, 2, nil, true, time.Now(), nil)

	suite.mock.ExpectQuery(`AND stock_take_id = \$1 AND submitted = true ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.stockTake.ID, 50, 0).
		WillReturnRows(rows)

	counts, err := suite.repo.List(suite.context, filter)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), counts, 1)
	assert.True(suite.T(), counts[0].Submitted)
}
