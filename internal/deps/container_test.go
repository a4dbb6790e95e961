package deps

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestContainer_Services(t *testing.T) {
	c := NewContainer(nil, nil, nil, nil, nil, nil)
	assert.NotNil(t, c.Logger)
	assert.Nil(t, c.GetService(MarketsService))

	c.RegisterService(MarketsService, "svc")
	assert.Equal(t, "svc", c.GetService(MarketsService))
}

func TestContainer_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	c := NewContainer(gormDB, nil, nil, nil, nil, cache.NewMemoryCache[string]())
	assert.NoError(t, c.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
