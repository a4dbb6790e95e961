package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTrade(t *testing.T) {
	t.Run("TableName", func(t *testing.T) {
		tr := Trade{}
		assert.Equal(t, "trades", tr.TableName())
	})

	t.Run("BeforeCreate", func(t *testing.T) {
		tr := Trade{}
		assert.NoError(t, tr.BeforeCreate(nil))
		assert.NotEqual(t, uuid.Nil, tr.ID)
	})

	t.Run("SupplyDelta", func(t *testing.T) {
		buy := Trade{Side: TradeSideBuy, ExecutedShares: 10}
		sell := Trade{Side: TradeSideSell, ExecutedShares: 10}
		assert.Equal(t, int64(10), buy.SupplyDelta())
		assert.Equal(t, int64(-10), sell.SupplyDelta())
	})

	t.Run("Validate", func(t *testing.T) {
		valid := Trade{
			MarketID:        uuid.New(),
			OutcomeID:       uuid.New(),
			Wallet:          "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
			Side:            TradeSideBuy,
			RequestedShares: 100,
			ExecutedShares:  100,
			Amount:          decimal.RequireFromString("1.0495"),
			AveragePrice:    decimal.RequireFromString("0.010495"),
			SupplyBefore:    0,
			SupplyAfter:     100,
		}
		assert.NoError(t, valid.Validate())

		sell := valid
		sell.Side = TradeSideSell
		sell.SupplyBefore, sell.SupplyAfter = 100, 0
		assert.NoError(t, sell.Validate())

		tests := []struct {
			name   string
			modify func(*Trade)
			err    error
		}{
			{"Missing market", func(tr *Trade) { tr.MarketID = uuid.Nil }, ErrInvalidMarketID},
			{"Missing outcome", func(tr *Trade) { tr.OutcomeID = uuid.Nil }, ErrInvalidOutcomeID},
			{"Missing wallet", func(tr *Trade) { tr.Wallet = "" }, ErrInvalidWallet},
			{"Unknown side", func(tr *Trade) { tr.Side = "short" }, ErrInvalidTradeSide},
			{"Nothing executed", func(tr *Trade) { tr.ExecutedShares = 0 }, ErrInvalidShareCount},
			{"Executed above requested", func(tr *Trade) { tr.ExecutedShares = 101 }, ErrInvalidShareCount},
			{"Negative amount", func(tr *Trade) { tr.Amount = decimal.NewFromInt(-1) }, ErrInvalidTradeAmount},
			{"Supply mismatch", func(tr *Trade) { tr.SupplyAfter = 99 }, ErrInvalidShareCount},
			{"Empty signature", func(tr *Trade) { empty := ""; tr.TxSignature = &empty }, ErrInvalidTxSignature},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				trade := valid
				tt.modify(&trade)
				assert.Equal(t, tt.err, trade.Validate())
			})
		}
	})
}
