package handler

import (
	"net/http"

	"github.com/dushixiang/papertrade/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// MarketHandler 行情HTTP处理器
type MarketHandler struct {
	logger        *zap.Logger
	marketService *service.MarketService
	prices        service.PriceSource
}

// NewMarketHandler 创建行情处理器
func NewMarketHandler(logger *zap.Logger, marketService *service.MarketService, prices service.PriceSource) *MarketHandler {
	return &MarketHandler{
		logger:        logger,
		marketService: marketService,
		prices:        prices,
	}
}

// GetPrice 获取最新价格，优先使用实时行情流
// GET /api/market/price
func (h *MarketHandler) GetPrice(c echo.Context) error {
	ctx := c.Request().Context()

	price := h.prices.LastPrice()
	if price <= 0 {
		// 行情流尚未就绪时回退到REST接口
		restPrice, err := h.marketService.GetCurrentPrice(ctx)
		if err != nil {
			return err
		}
		price = restPrice
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"symbol": h.marketService.Symbol(),
		"price":  price,
	})
}

// GetTicker 获取24小时行情统计
// GET /api/market/ticker
func (h *MarketHandler) GetTicker(c echo.Context) error {
	ctx := c.Request().Context()

	ticker, err := h.marketService.GetTicker24h(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticker)
}

// GetKlines 获取K线
// GET /api/market/klines?interval=1h&limit=200
func (h *MarketHandler) GetKlines(c echo.Context) error {
	ctx := c.Request().Context()

	interval := c.QueryParam("interval")
	limit := cast.ToInt(c.QueryParam("limit"))

	klines, err := h.marketService.GetKlines(ctx, interval, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, klines)
}

// GetIndicators 获取多周期技术指标快照
// GET /api/market/indicators
func (h *MarketHandler) GetIndicators(c echo.Context) error {
	ctx := c.Request().Context()

	indicators, err := h.marketService.GetIndicators(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, indicators)
}

// RegisterRoutes 注册路由
func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	market := g.Group("/market")
	market.GET("/price", h.GetPrice)
	market.GET("/ticker", h.GetTicker)
	market.GET("/klines", h.GetKlines)
	market.GET("/indicators", h.GetIndicators)
}
