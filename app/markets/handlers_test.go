package markets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ganette57/pumpmarket.fun-sub001/app/api"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/logger"
	"github.com/ganette57/pumpmarket.fun-sub001/internal/sanitizer"
	"github.com/ganette57/pumpmarket.fun-sub001/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateMarket(ctx context.Context, req *CreateMarketRequest) (*MarketResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketResponse), args.Error(1)
}

func (m *MockService) GetMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketResponse), args.Error(1)
}

func (m *MockService) ListMarkets(ctx context.Context, filters *MarketFilters) (*MarketListResponse, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketListResponse), args.Error(1)
}

func (m *MockService) GetOdds(ctx context.Context, id uuid.UUID) (*OddsSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OddsSnapshot), args.Error(1)
}

func (m *MockService) GetPriceCurve(ctx context.Context, id uuid.UUID) (*CurveResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CurveResponse), args.Error(1)
}

func (m *MockService) CloseMarket(ctx context.Context, id uuid.UUID) (*MarketResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketResponse), args.Error(1)
}

func (m *MockService) CloseExpiredMarkets(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockService) RefreshOdds(ctx context.Context, id uuid.UUID) (*OddsSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OddsSnapshot), args.Error(1)
}

type MarketHandlerTestSuite struct {
	suite.Suite
	service *MockService
	stream  *MockStream
	handler *Handler
	router  *gin.Engine
}

func (suite *MarketHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *MarketHandlerTestSuite) SetupTest() {
	suite.service = &MockService{}
	suite.stream = &MockStream{}
	suite.handler = NewHandler(suite.service, GetDefaultConfig(), sanitizer.NewHTMLStripper(), suite.stream, logger.NewNullLogger())

	suite.router = gin.New()
	g := suite.router.Group("/markets")
	g.GET("", suite.handler.ListMarkets)
	g.POST("", suite.handler.CreateMarket)
	g.GET("/:id", suite.handler.GetMarket)
	g.GET("/:id/odds", suite.handler.GetOdds)
	g.GET("/:id/curve", suite.handler.GetPriceCurve)
	g.POST("/:id/close", suite.handler.CloseMarket)
	g.GET("/:id/stream", suite.handler.StreamOdds)
}

func TestMarketHandler(t *testing.T) {
	suite.Run(t, new(MarketHandlerTestSuite))
}

func (suite *MarketHandlerTestSuite) do(method, path string, body interface{}) (*httptest.ResponseRecorder, api.Response) {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var resp api.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func (suite *MarketHandlerTestSuite) TestListMarkets() {
	suite.service.On("ListMarkets", mock.Anything, mock.MatchedBy(func(f *MarketFilters) bool {
		return f.Page == 2 && f.PerPage == 10 && f.Category == "sports" && *f.Status == models.MarketStatusOpen
	})).Return(&MarketListResponse{
		Markets: []MarketResponse{{ID: uuid.New()}},
		Total:   11,
		Page:    2,
		PerPage: 10,
	}, nil)

	w, resp := suite.do(http.MethodGet, "/markets?page=2&per_page=10&category=sports&status=open", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(resp.Success)

	meta := resp.Meta.(map[string]interface{})
	suite.Equal(float64(2), meta["total_pages"])
	suite.Equal(false, meta["has_next"])
	suite.Equal(true, meta["has_prev"])
}

func (suite *MarketHandlerTestSuite) TestListMarkets_UnknownStatus() {
	w, resp := suite.do(http.MethodGet, "/markets?status=proposed", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", resp.Error.Code)
	suite.service.AssertNotCalled(suite.T(), "ListMarkets", mock.Anything, mock.Anything)
}

func (suite *MarketHandlerTestSuite) TestCreateMarket() {
	req := validCreateRequest(time.Now())
	suite.service.On("CreateMarket", mock.Anything, mock.MatchedBy(func(r *CreateMarketRequest) bool {
		return r.Title == req.Title && r.Category == "crypto"
	})).Return(&MarketResponse{ID: uuid.New(), Title: req.Title}, nil)

	w, resp := suite.do(http.MethodPost, "/markets", req)
	suite.Equal(http.StatusCreated, w.Code)
	suite.True(resp.Success)
}

func (suite *MarketHandlerTestSuite) TestCreateMarket_ValidationFailed() {
	req := validCreateRequest(time.Now())
	req.Outcomes = []string{"only one"}

	w, resp := suite.do(http.MethodPost, "/markets", req)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", resp.Error.Code)
	suite.service.AssertNotCalled(suite.T(), "CreateMarket", mock.Anything, mock.Anything)
}

func (suite *MarketHandlerTestSuite) TestCreateMarket_MalformedJSON() {
	req := httptest.NewRequest(http.MethodPost, "/markets", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *MarketHandlerTestSuite) TestGetMarket() {
	id := uuid.New()
	suite.service.On("GetMarket", mock.Anything, id).Return(&MarketResponse{ID: id}, nil)

	w, resp := suite.do(http.MethodGet, "/markets/"+id.String(), nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(resp.Success)
}

func (suite *MarketHandlerTestSuite) TestGetMarket_InvalidID() {
	w, _ := suite.do(http.MethodGet, "/markets/not-a-uuid", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *MarketHandlerTestSuite) TestGetMarket_NotFound() {
	id := uuid.New()
	suite.service.On("GetMarket", mock.Anything, id).Return(nil, models.ErrRecordNotFound)

	w, resp := suite.do(http.MethodGet, "/markets/"+id.String(), nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", resp.Error.Code)
}

func (suite *MarketHandlerTestSuite) TestGetOdds() {
	id := uuid.New()
	suite.service.On("GetOdds", mock.Anything, id).Return(&OddsSnapshot{MarketID: id}, nil)

	w, _ := suite.do(http.MethodGet, "/markets/"+id.String()+"/odds", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *MarketHandlerTestSuite) TestGetPriceCurve_InternalError() {
	id := uuid.New()
	suite.service.On("GetPriceCurve", mock.Anything, id).Return(nil, errors.New("db down"))

	w, resp := suite.do(http.MethodGet, "/markets/"+id.String()+"/curve", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("INTERNAL_ERROR", resp.Error.Code)
}

func (suite *MarketHandlerTestSuite) TestCloseMarket_Conflict() {
	id := uuid.New()
	suite.service.On("CloseMarket", mock.Anything, id).Return(nil, models.ErrMarketAlreadyClosed)

	w, resp := suite.do(http.MethodPost, "/markets/"+id.String()+"/close", nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("CONFLICT", resp.Error.Code)
}

func (suite *MarketHandlerTestSuite) TestStreamOdds_UnknownMarket() {
	id := uuid.New()
	suite.service.On("GetOdds", mock.Anything, id).Return(nil, models.ErrRecordNotFound)

	w, _ := suite.do(http.MethodGet, "/markets/"+id.String()+"/stream", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.stream.AssertNotCalled(suite.T(), "ServeWS", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MarketHandlerTestSuite) TestStreamOdds_SendsSnapshotFirst() {
	id := uuid.New()
	snap := &OddsSnapshot{MarketID: id, Status: models.MarketStatusOpen}
	suite.service.On("GetOdds", mock.Anything, id).Return(snap, nil)

	expected, err := json.Marshal(snap)
	suite.Require().NoError(err)
	suite.stream.On("ServeWS", mock.Anything, mock.Anything, "market:"+id.String(), expected).Return(nil)

	suite.do(http.MethodGet, "/markets/"+id.String()+"/stream", nil)
	suite.stream.AssertExpectations(suite.T())
}
