package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMarketOutcome(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		mo := MarketOutcome{}
		assert.Equal(t, "market_outcomes", mo.TableName())
	})

	t.Run("BeforeCreate", func(t *testing.T) {
		mo := MarketOutcome{}
		assert.Equal(t, uuid.Nil, mo.ID)

		err := mo.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, mo.ID)

		existingID := uuid.New()
		mo2 := MarketOutcome{ID: existingID}
		err = mo2.BeforeCreate(nil)
		assert.NoError(t, err)
		assert.Equal(t, existingID, mo2.ID)
	})

	t.Run("ApplyBuy", func(t *testing.T) {
		mo := MarketOutcome{Supply: 990}

		assert.NoError(t, mo.ApplyBuy(10, 1000))
		assert.Equal(t, int64(1000), mo.Supply)

		assert.Equal(t, ErrSupplyCapExceeded, mo.ApplyBuy(1, 1000))
		assert.Equal(t, int64(1000), mo.Supply)

		assert.Equal(t, ErrInvalidShareCount, mo.ApplyBuy(0, 1000))
		assert.Equal(t, ErrInvalidShareCount, mo.ApplyBuy(-5, 1000))
	})

	t.Run("ApplySell", func(t *testing.T) {
		mo := MarketOutcome{Supply: 25}

		assert.NoError(t, mo.ApplySell(25))
		assert.Equal(t, int64(0), mo.Supply)

		assert.Equal(t, ErrNegativeSupply, mo.ApplySell(1))
		assert.Equal(t, ErrInvalidShareCount, mo.ApplySell(0))
	})

	t.Run("Validate", func(t *testing.T) {
		validOutcome := MarketOutcome{
			MarketID: uuid.New(),
			Name:     "YES",
			Supply:   100,
		}
		assert.NoError(t, validOutcome.Validate())

		tests := []struct {
			name   string
			modify func(*MarketOutcome)
			err    error
		}{
			{"Invalid MarketID", func(mo *MarketOutcome) { mo.MarketID = uuid.Nil }, ErrInvalidMarketID},
			{"Empty Name", func(mo *MarketOutcome) { mo.Name = "" }, ErrInvalidOutcomeName},
			{"Negative Supply", func(mo *MarketOutcome) { mo.Supply = -1 }, ErrNegativeSupply},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				outcome := validOutcome
				tt.modify(&outcome)
				assert.Equal(t, tt.err, outcome.Validate())
			})
		}
	})
}
