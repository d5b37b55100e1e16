package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/feature/securities/domain/entity"
	"portfolio_backend/internal/feature/securities/transport/http/dto"
)

// SecurityUsecase は銘柄リファレンスデータに関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SecurityUsecase interface {
	ListSecurities(ctx context.Context) ([]entity.Security, error)
}

// SecurityHandler は銘柄リファレンスデータに関するHTTPリクエストを処理します。
type SecurityHandler struct {
	uc SecurityUsecase
}

// NewSecurityHandler は新しい SecurityHandler を作成します。
func NewSecurityHandler(uc SecurityUsecase) *SecurityHandler {
	return &SecurityHandler{uc: uc}
}

// List は登録されている銘柄の一覧を取得するAPIです。
// Usecaseを呼び出して銘柄一覧を取得し、DTOに変換してJSONレスポンスとして返します。
func (h *SecurityHandler) List(c *gin.Context) {
	securities, err := h.uc.ListSecurities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.SecurityItem, 0, len(securities))
	for _, s := range securities {
		out = append(out, dto.SecurityItem{Ticker: s.Ticker, Name: s.Name, Sector: s.Sector})
	}
	c.JSON(http.StatusOK, out)
}
