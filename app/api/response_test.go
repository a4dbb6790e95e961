package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var response Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestAPIResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("SuccessResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		SuccessResponse(c, http.StatusOK, "Odds retrieved", map[string]float64{"yes": 1.9})

		assert.Equal(t, http.StatusOK, w.Code)
		response := decode(t, w)
		assert.True(t, response.Success)
		assert.Equal(t, "Odds retrieved", response.Message)
		assert.NotNil(t, response.Data)
		assert.Nil(t, response.Error)
	})

	t.Run("ErrorResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		ErrorResponse(c, http.StatusBadRequest, "TEST_ERROR", "Test error message", map[string]string{"field": "error"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		response := decode(t, w)
		assert.False(t, response.Success)
		require.NotNil(t, response.Error)
		assert.Equal(t, "TEST_ERROR", response.Error.Code)
		assert.Equal(t, "Test error message", response.Error.Message)
		assert.NotNil(t, response.Error.Details)
	})

	errorCases := []struct {
		name    string
		send    func(c *gin.Context)
		status  int
		code    string
		message string
	}{
		{"ValidationErrorResponse", func(c *gin.Context) { ValidationErrorResponse(c, map[string]string{"wallet": "invalid"}) },
			http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data"},
		{"BadRequestResponse", func(c *gin.Context) { BadRequestResponse(c, "unexpected EOF") },
			http.StatusBadRequest, "BAD_REQUEST", "Invalid request data"},
		{"NotFoundResponse", func(c *gin.Context) { NotFoundResponse(c, "Market") },
			http.StatusNotFound, "NOT_FOUND", "Market not found"},
		{"UnprocessableResponse", func(c *gin.Context) { UnprocessableResponse(c, "MARKET_CLOSED", "market is not open for trading") },
			http.StatusUnprocessableEntity, "MARKET_CLOSED", "market is not open for trading"},
		{"InternalErrorResponse", func(c *gin.Context) { InternalErrorResponse(c, "Database connection failed") },
			http.StatusInternalServerError, "INTERNAL_ERROR", "Database connection failed"},
		{"ConflictResponse", func(c *gin.Context) { ConflictResponse(c, "Duplicate transaction signature") },
			http.StatusConflict, "CONFLICT", "Duplicate transaction signature"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tc.send(c)

			assert.Equal(t, tc.status, w.Code)
			response := decode(t, w)
			assert.False(t, response.Success)
			require.NotNil(t, response.Error)
			assert.Equal(t, tc.code, response.Error.Code)
			assert.Equal(t, tc.message, response.Error.Message)
		})
	}

	t.Run("CreatedResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		CreatedResponse(c, "Market created", map[string]string{"id": "123"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decode(t, w).Success)
	})

	t.Run("TooManyRequestsResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		TooManyRequestsResponse(c, "too many trades")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "RATE_LIMIT_EXCEEDED", decode(t, w).Error.Code)
	})

	t.Run("ListResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		ListResponse(c, "Positions retrieved", []string{"a", "b", "c"}, 3)

		response := decode(t, w)
		meta, ok := response.Meta.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(3), meta["count"])
	})

	t.Run("PaginatedResponse", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		PaginatedResponse(c, "Markets retrieved", []string{"m1"}, NewPaginationMeta(2, 10, 25))

		response := decode(t, w)
		meta, ok := response.Meta.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(3), meta["total_pages"])
		assert.Equal(t, true, meta["has_next"])
		assert.Equal(t, true, meta["has_prev"])
	})
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		page, perPage int
		total         int64
		want          PaginationMeta
	}{
		{1, 20, 0, PaginationMeta{Page: 1, PerPage: 20}},
		{1, 20, 20, PaginationMeta{Page: 1, PerPage: 20, Total: 20, TotalPages: 1}},
		{1, 20, 21, PaginationMeta{Page: 1, PerPage: 20, Total: 21, TotalPages: 2, HasNext: true}},
		{2, 20, 21, PaginationMeta{Page: 2, PerPage: 20, Total: 21, TotalPages: 2, HasPrev: true}},
		{1, 0, 5, PaginationMeta{Page: 1, PerPage: 0, Total: 5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPaginationMeta(tt.page, tt.perPage, tt.total))
	}
}
