package trading

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ganette57/pumpmarket.fun-sub001/app/api"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/validator"
	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHeader carries the trading wallet's public key
const WalletHeader = "X-Wallet-Address"

// Handler handles HTTP requests for trading operations
type Handler struct {
	service Service
	config  *Config
	log     logger.Logger
}

// NewHandler creates a new trading handler
func NewHandler(service Service, config *Config, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Handler{
		service: service,
		config:  config,
		log:     log,
	}
}

// Quote godoc
// @Summary Quote a trade
// @Description Price a buy or sell against the outcome's current supply. The quote is an estimate.
// @Tags trading
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Quote request"
// @Success 200 {object} api.Response{data=QuoteResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/trades/quote [post]
func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v, h.config) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "quote trade")
		return
	}

	api.SuccessResponse(c, http.StatusOK, "Quote computed", quote)
}

// Buy godoc
// @Summary Buy outcome shares
// @Description Mint shares on the outcome's bonding curve. Requests past the supply cap are partially filled.
// @Tags trading
// @Accept json
// @Produce json
// @Param X-Wallet-Address header string true "Buyer wallet public key"
// @Param request body TradeRequest true "Trade request"
// @Success 201 {object} api.Response{data=TradeResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Failure 429 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/trades/buy [post]
func (h *Handler) Buy(c *gin.Context) {
	h.trade(c, models.TradeSideBuy)
}

// Sell godoc
// @Summary Sell outcome shares
// @Description Burn held shares back into the curve. Requests beyond the wallet's position are clamped to it.
// @Tags trading
// @Accept json
// @Produce json
// @Param X-Wallet-Address header string true "Seller wallet public key"
// @Param request body TradeRequest true "Trade request"
// @Success 201 {object} api.Response{data=TradeResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Failure 422 {object} api.Response{error=api.ErrorInfo}
// @Failure 429 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/trades/sell [post]
func (h *Handler) Sell(c *gin.Context) {
	h.trade(c, models.TradeSideSell)
}

func (h *Handler) trade(c *gin.Context, side models.TradeSide) {
	wallet, ok := h.walletFromHeader(c)
	if !ok {
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v, h.config) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	call := h.service.Buy
	if side == models.TradeSideSell {
		call = h.service.Sell
	}

	result, err := call(c.Request.Context(), wallet, &req)
	if err != nil {
		h.handleServiceError(c, err, string(side)+" shares")
		return
	}

	api.CreatedResponse(c, "Trade executed", result)
}

// ListTrades godoc
// @Summary List trades
// @Description Get executed trades, newest first
// @Tags trading
// @Produce json
// @Param market_id query string false "Filter by market"
// @Param wallet query string false "Filter by wallet"
// @Param side query string false "Filter by side" Enums(buy,sell)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} api.Response{data=[]models.Trade,meta=api.PaginationMeta}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/trades [get]
func (h *Handler) ListTrades(c *gin.Context) {
	var filters TradeFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if raw := c.Query("market_id"); raw != "" {
		id, err := uuid.Parse(raw)
		v.Check(err == nil, "market_id", "must be a valid UUID")
		if err == nil {
			filters.MarketID = &id
		}
	}
	if filters.Side != nil {
		v.Check(filters.Side.IsValid(), "side", "must be buy or sell")
	}
	if filters.Wallet != "" {
		v.Check(validator.IsSolanaAddress(strings.TrimSpace(filters.Wallet)), "wallet", "must be a valid Solana address")
	}
	if !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	result, err := h.service.ListTrades(c.Request.Context(), &filters)
	if err != nil {
		h.handleServiceError(c, err, "list trades")
		return
	}

	meta := api.NewPaginationMeta(result.Page, result.PerPage, result.Total)
	api.PaginatedResponse(c, "Trades retrieved successfully", result.Trades, meta)
}

// GetPositions godoc
// @Summary Wallet positions
// @Description Get a wallet's open positions valued at what selling them would return now
// @Tags trading
// @Produce json
// @Param wallet path string true "Wallet public key"
// @Success 200 {object} api.Response{data=[]PositionResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/wallets/{wallet}/positions [get]
func (h *Handler) GetPositions(c *gin.Context) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	if !validator.IsSolanaAddress(wallet) {
		api.BadRequestResponse(c, "Invalid wallet address")
		return
	}

	positions, err := h.service.GetPositions(c.Request.Context(), wallet)
	if err != nil {
		h.handleServiceError(c, err, "get positions")
		return
	}

	api.ListResponse(c, "Positions retrieved successfully", positions, len(positions))
}

// walletFromHeader reads and validates the trading wallet
func (h *Handler) walletFromHeader(c *gin.Context) (string, bool) {
	wallet := strings.TrimSpace(c.GetHeader(WalletHeader))
	if !validator.IsSolanaAddress(wallet) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", map[string]string{
			"wallet": "a valid Solana address is required in the " + WalletHeader + " header",
		}))
		return "", false
	}
	return wallet, true
}

// handleServiceError maps trading errors to responses
func (h *Handler) handleServiceError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Market or outcome")
	case errors.Is(err, models.ErrRateLimitExceeded):
		api.TooManyRequestsResponse(c, err.Error())
	case errors.Is(err, models.ErrDuplicateTxSignature):
		api.ConflictResponse(c, err.Error())
	case h.isTradeRejection(err):
		api.UnprocessableResponse(c, "TRADE_REJECTED", err.Error())
	case errors.Is(err, models.ErrInvalidShareCount), errors.Is(err, models.ErrTooManySharesPerTx):
		api.BadRequestResponse(c, err.Error())
	default:
		h.log.Error(err, logger.Fields{"op": operation, "path": c.FullPath()})
		api.InternalErrorResponse(c, "Failed to "+operation)
	}
}

// isTradeRejection reports errors where the request was well formed but the
// market state does not allow it
func (h *Handler) isTradeRejection(err error) bool {
	rejections := []error{
		models.ErrMarketNotOpen,
		models.ErrOutcomeNotInMarket,
		models.ErrNothingExecuted,
		models.ErrSlippageExceeded,
		models.ErrInsufficientShares,
		models.ErrSupplyCapExceeded,
	}
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
