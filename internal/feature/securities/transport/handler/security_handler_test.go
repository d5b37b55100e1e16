package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"portfolio_backend/internal/feature/securities/domain/entity"
)

// mockSecurityUsecase はSecurityUsecaseのテスト用モックです。
type mockSecurityUsecase struct {
	listSecuritiesFunc func(ctx context.Context) ([]entity.Security, error)
}

func (m *mockSecurityUsecase) ListSecurities(ctx context.Context) ([]entity.Security, error) {
	return m.listSecuritiesFunc(ctx)
}

func TestSecurityList(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSecurityHandler(&mockSecurityUsecase{
		listSecuritiesFunc: func(_ context.Context) ([]entity.Security, error) {
			return []entity.Security{
				{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology"},
			}, nil
		},
	})
	r.GET("/securities", h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/securities", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"ticker":"AAPL","name":"Apple Inc.","sector":"Technology"}]`, w.Body.String())
}

func TestSecurityList_Error(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSecurityHandler(&mockSecurityUsecase{
		listSecuritiesFunc: func(_ context.Context) ([]entity.Security, error) {
			return nil, errors.New("db down")
		},
	})
	r.GET("/securities", h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/securities", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
