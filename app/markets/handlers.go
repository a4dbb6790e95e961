package markets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/app/api"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/sanitizer"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/stream"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/validator"
	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for markets
type Handler struct {
	service   Service
	config    *Config
	sanitizer sanitizer.HTMLStripperer
	stream    OddsStream
	log       logger.Logger
	now       func() time.Time
}

// NewHandler creates a new market handler
func NewHandler(service Service, config *Config, sanitizer sanitizer.HTMLStripperer, events OddsStream, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Handler{
		service:   service,
		config:    config,
		sanitizer: sanitizer,
		stream:    events,
		log:       log,
		now:       time.Now,
	}
}

// parseUUIDFromParam extracts and validates UUID from path parameter
func (h *Handler) parseUUIDFromParam(c *gin.Context, paramName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		api.BadRequestResponse(c, "Invalid "+paramName+" format")
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError handles common service errors with appropriate responses
func (h *Handler) handleServiceError(c *gin.Context, err error, operation string) {
	var vErr *validator.ValidationError
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Market")
	case errors.As(err, &vErr):
		api.ValidationErrorResponse(c, vErr)
	case errors.Is(err, models.ErrMarketAlreadyClosed):
		api.ConflictResponse(c, err.Error())
	case h.isValidationError(err):
		api.BadRequestResponse(c, err.Error())
	default:
		h.log.Error(err, logger.Fields{"op": operation, "path": c.FullPath()})
		api.InternalErrorResponse(c, "Failed to "+operation)
	}
}

// executeWithID parses the :id parameter, calls the service and writes its result
func (h *Handler) executeWithID(c *gin.Context, operation, successMessage string, call func(uuid.UUID) (interface{}, error)) {
	id, ok := h.parseUUIDFromParam(c, "id")
	if !ok {
		return
	}

	result, err := call(id)
	if err != nil {
		h.handleServiceError(c, err, operation)
		return
	}

	api.SuccessResponse(c, http.StatusOK, successMessage, result)
}

// ListMarkets godoc
// @Summary List prediction markets
// @Description Get a paginated list of markets with current prices and odds
// @Tags markets
// @Produce json
// @Param status query string false "Filter by market status" Enums(open,closed,resolved,cancelled)
// @Param category query string false "Filter by category"
// @Param creator_wallet query string false "Filter by creator wallet"
// @Param search query string false "Search in title and description"
// @Param sort_by query string false "Sort field" Enums(created_at,close_time,title) default(created_at)
// @Param sort_order query string false "Sort direction" Enums(asc,desc) default(desc)
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} api.Response{data=[]MarketResponse,meta=api.PaginationMeta}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets [get]
func (h *Handler) ListMarkets(c *gin.Context) {
	var filters MarketFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	if filters.Status != nil && !filters.Status.IsValid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", map[string]string{
			"status": "unknown market status",
		}))
		return
	}

	result, err := h.service.ListMarkets(c.Request.Context(), &filters)
	if err != nil {
		h.handleServiceError(c, err, "fetch markets")
		return
	}

	meta := api.NewPaginationMeta(result.Page, result.PerPage, result.Total)
	api.PaginatedResponse(c, "Markets retrieved successfully", result.Markets, meta)
}

// CreateMarket godoc
// @Summary Create a market
// @Description Create a new market; every outcome starts with zero supply
// @Tags markets
// @Accept json
// @Produce json
// @Param request body CreateMarketRequest true "Market details"
// @Success 201 {object} api.Response{data=MarketResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 500 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets [post]
func (h *Handler) CreateMarket(c *gin.Context) {
	var req CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	v := validator.New()
	if !req.Validate(v, h.sanitizer, h.config, h.now()) {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	market, err := h.service.CreateMarket(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, "create market")
		return
	}

	api.CreatedResponse(c, "Market created successfully", market)
}

// GetMarket godoc
// @Summary Get market
// @Description Get a market with each outcome's spot price, probability and odds
// @Tags markets
// @Produce json
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=MarketResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id} [get]
func (h *Handler) GetMarket(c *gin.Context) {
	h.executeWithID(c, "fetch market", "Market retrieved successfully", func(id uuid.UUID) (interface{}, error) {
		return h.service.GetMarket(c.Request.Context(), id)
	})
}

// GetOdds godoc
// @Summary Get market odds
// @Description Implied probabilities and decimal odds for every outcome
// @Tags markets
// @Produce json
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=OddsSnapshot}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/odds [get]
func (h *Handler) GetOdds(c *gin.Context) {
	h.executeWithID(c, "compute odds", "Odds retrieved successfully", func(id uuid.UUID) (interface{}, error) {
		return h.service.GetOdds(c.Request.Context(), id)
	})
}

// GetPriceCurve godoc
// @Summary Get price curve
// @Description Sampled bonding-curve prices with each outcome's current position
// @Tags markets
// @Produce json
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=CurveResponse}
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/curve [get]
func (h *Handler) GetPriceCurve(c *gin.Context) {
	h.executeWithID(c, "sample price curve", "Price curve retrieved successfully", func(id uuid.UUID) (interface{}, error) {
		return h.service.GetPriceCurve(c.Request.Context(), id)
	})
}

// CloseMarket godoc
// @Summary Close market
// @Description Stop trading on an open market
// @Tags markets
// @Produce json
// @Param id path string true "Market ID"
// @Success 200 {object} api.Response{data=MarketResponse}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Failure 409 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/close [post]
func (h *Handler) CloseMarket(c *gin.Context) {
	h.executeWithID(c, "close market", "Market closed successfully", func(id uuid.UUID) (interface{}, error) {
		return h.service.CloseMarket(c.Request.Context(), id)
	})
}

// StreamOdds godoc
// @Summary Stream market odds
// @Description Upgrades to a WebSocket that receives the current odds snapshot and one per executed trade
// @Tags markets
// @Param id path string true "Market ID"
// @Success 101
// @Failure 400 {object} api.Response{error=api.ErrorInfo}
// @Failure 404 {object} api.Response{error=api.ErrorInfo}
// @Router /api/v1/markets/{id}/stream [get]
func (h *Handler) StreamOdds(c *gin.Context) {
	id, ok := h.parseUUIDFromParam(c, "id")
	if !ok {
		return
	}

	snap, err := h.service.GetOdds(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "compute odds")
		return
	}

	initial, err := json.Marshal(snap)
	if err != nil {
		h.handleServiceError(c, err, "encode odds")
		return
	}

	if err := h.stream.ServeWS(c.Writer, c.Request, stream.MarketTopic(id.String()), initial); err != nil {
		h.log.Warn("odds stream not established", logger.Fields{"market_id": id.String(), "error": err.Error()})
	}
}

func (h *Handler) isValidationError(err error) bool {
	return errors.Is(err, models.ErrInvalidMarketTitle) ||
		errors.Is(err, models.ErrInvalidMarketType) ||
		errors.Is(err, models.ErrInvalidMarketStatus) ||
		errors.Is(err, models.ErrInvalidCloseTime) ||
		errors.Is(err, models.ErrInvalidOutcomeCount) ||
		errors.Is(err, models.ErrMarketCreatorRequired)
}
