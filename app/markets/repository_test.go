package markets

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/ganette57/pumpmarket.fun-sub001/tests/suites"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestRepository_UpdateStatus(t *testing.T) {
	t.Run("updates one row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "markets" SET "status"=$1,"updated_at"=$2 WHERE id = $3`)).
			WithArgs(models.MarketStatusClosed, sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.UpdateStatus(context.Background(), id, models.MarketStatusClosed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing market", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "markets"`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		assert.ErrorIs(t, repo.UpdateStatus(context.Background(), id, models.MarketStatusClosed), gorm.ErrRecordNotFound)
	})
}

type MarketRepositoryTestSuite struct {
	suites.RepositoryTestSuite
	repo Repository
	ctx  context.Context
}

func (suite *MarketRepositoryTestSuite) SetupSuite() {
	suite.RepositoryTestSuite.SetupSuite()
	suite.repo = NewRepository(suite.DB)
	suite.ctx = context.Background()
}

func TestMarketRepository(t *testing.T) {
	suite.Run(t, new(MarketRepositoryTestSuite))
}

func (suite *MarketRepositoryTestSuite) TestCreateAndGetByID() {
	market := &models.Market{
		Title:         "Will it rain in Paris tomorrow?",
		Category:      "weather",
		MarketType:    models.MarketTypeBinary,
		Status:        models.MarketStatusOpen,
		CreatorWallet: suites.TestWallet,
		CloseTime:     time.Now().Add(time.Hour).UTC(),
		Metadata:      models.MarketMetadata{Tags: []string{"paris"}},
		Outcomes: []models.MarketOutcome{
			{Name: "NO", SortOrder: 2},
			{Name: "YES", SortOrder: 1},
		},
	}
	suite.Require().NoError(suite.repo.Create(suite.ctx, market))

	got, err := suite.repo.GetByID(suite.ctx, market.ID)
	suite.Require().NoError(err)
	suite.Equal("weather", got.Category)
	suite.Equal([]string{"paris"}, got.Metadata.Tags)
	suite.Require().Len(got.Outcomes, 2)
	suite.Equal("YES", got.Outcomes[0].Name, "outcomes come back in sort order")
	suite.Equal(int64(0), got.Outcomes[1].Supply)
}

func (suite *MarketRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := suite.repo.GetByID(suite.ctx, uuid.New())
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *MarketRepositoryTestSuite) TestGetAll_FiltersAndPaging() {
	for i := 0; i < 3; i++ {
		suite.SeedMarket(0, 0)
	}
	closed := suite.SeedMarket(1, 2, 3)
	suite.Require().NoError(suite.repo.UpdateStatus(suite.ctx, closed.ID, models.MarketStatusClosed))

	status := models.MarketStatusOpen
	markets, total, err := suite.repo.GetAll(suite.ctx, &MarketFilters{Status: &status, Page: 1, PerPage: 2})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(markets, 2)

	status = models.MarketStatusClosed
	markets, total, err = suite.repo.GetAll(suite.ctx, &MarketFilters{Status: &status, Page: 1, PerPage: 20})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(markets[0].Outcomes, 3)

	_, total, err = suite.repo.GetAll(suite.ctx, &MarketFilters{Search: "SEEDED", Page: 1, PerPage: 20})
	suite.Require().NoError(err)
	suite.Equal(int64(4), total)
}

func (suite *MarketRepositoryTestSuite) TestCloseExpired() {
	expired := suite.SeedMarket(0, 0)
	suite.Require().NoError(suite.DB.Model(&models.Market{}).
		Where("id = ?", expired.ID).
		Update("close_time", time.Now().Add(-time.Minute)).Error)
	suite.SeedMarket(0, 0)

	ids, err := suite.repo.CloseExpired(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal([]uuid.UUID{expired.ID}, ids)

	got, err := suite.repo.GetByID(suite.ctx, expired.ID)
	suite.Require().NoError(err)
	suite.Equal(models.MarketStatusClosed, got.Status)
}
