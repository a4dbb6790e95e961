package models

import "errors"

var (
	ErrInvalidMarketTitle    = errors.New("invalid market title")
	ErrInvalidMarketType     = errors.New("invalid market type")
	ErrInvalidMarketStatus   = errors.New("invalid market status")
	ErrInvalidMarketID       = errors.New("invalid market ID")
	ErrInvalidCloseTime      = errors.New("invalid close time")
	ErrInvalidOutcomeCount   = errors.New("invalid number of outcomes")
	ErrMarketAlreadyClosed   = errors.New("market is already closed")
	ErrMarketNotOpen         = errors.New("market is not open for trading")
	ErrMarketCreatorRequired = errors.New("market creator wallet is required")

	ErrInvalidOutcomeID   = errors.New("invalid outcome ID")
	ErrInvalidOutcomeName = errors.New("invalid outcome name")
	ErrNegativeSupply     = errors.New("outcome supply cannot be negative")
	ErrSupplyCapExceeded  = errors.New("outcome supply cap exceeded")
	ErrOutcomeNotInMarket = errors.New("outcome does not belong to market")

	ErrInvalidWallet        = errors.New("invalid wallet address")
	ErrInvalidTradeSide     = errors.New("invalid trade side")
	ErrInvalidShareCount    = errors.New("invalid share count")
	ErrInsufficientShares   = errors.New("insufficient shares in position")
	ErrNothingExecuted      = errors.New("no shares could be executed")
	ErrSlippageExceeded     = errors.New("slippage tolerance exceeded")
	ErrTooManySharesPerTx   = errors.New("share count exceeds per-trade limit")
	ErrInvalidTradeAmount   = errors.New("invalid trade amount")
	ErrInvalidTxSignature   = errors.New("invalid transaction signature")
	ErrNegativePosition     = errors.New("position cannot be negative")
	ErrInvalidMarginFactor  = errors.New("invalid margin fraction")
	ErrRateLimitExceeded    = errors.New("too many trades, try again shortly")
	ErrDuplicateTxSignature = errors.New("transaction signature already recorded")

	ErrInvalidOutcomeLimits            = errors.New("invalid outcome limits")
	ErrInvalidMarketDuration           = errors.New("invalid market duration")
	ErrInvalidTitleLength              = errors.New("invalid title length")
	ErrInvalidCacheTTL                 = errors.New("invalid cache TTL")
	ErrInvalidSamplePoints             = errors.New("invalid curve sample points")
	ErrInvalidSharesPerTrade           = errors.New("invalid shares per trade limit")
	ErrInvalidSlippageLimit            = errors.New("invalid slippage limit")
	ErrInvalidRateLimit                = errors.New("invalid trade rate limit")
	ErrInvalidPriceImpactThresholds    = errors.New("invalid price impact thresholds")
	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
	ErrInvalidCacheBackend             = errors.New("invalid cache backend")

	ErrRecordNotFound = errors.New("record not found")
)
