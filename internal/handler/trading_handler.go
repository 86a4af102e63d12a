package handler

import (
	"net/http"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/dushixiang/papertrade/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// TradingHandler 模拟交易HTTP处理器
type TradingHandler struct {
	logger           *zap.Logger
	engineService    *service.EngineService
	portfolioService *service.PortfolioService
	analyticsService *service.AnalyticsService
	snapshotService  *service.SnapshotService
	chartService     *service.ChartService
}

// NewTradingHandler 创建交易处理器
func NewTradingHandler(
	logger *zap.Logger,
	engineService *service.EngineService,
	portfolioService *service.PortfolioService,
	analyticsService *service.AnalyticsService,
	snapshotService *service.SnapshotService,
	chartService *service.ChartService,
) *TradingHandler {
	return &TradingHandler{
		logger:           logger,
		engineService:    engineService,
		portfolioService: portfolioService,
		analyticsService: analyticsService,
		snapshotService:  snapshotService,
		chartService:     chartService,
	}
}

// MarketOrderRequest 市价单请求
type MarketOrderRequest struct {
	Side       string  `json:"side" validate:"required,oneof=buy sell"`
	Quantity   float64 `json:"quantity" validate:"required,gt=0"`
	StopLoss   float64 `json:"stop_loss" validate:"omitempty,gte=0"`
	TakeProfit float64 `json:"take_profit" validate:"omitempty,gte=0"`
}

// LimitOrderRequest 限价单请求
type LimitOrderRequest struct {
	Side       string  `json:"side" validate:"required,oneof=buy sell"`
	Quantity   float64 `json:"quantity" validate:"required,gt=0"`
	Price      float64 `json:"price" validate:"required,gt=0"`
	StopLoss   float64 `json:"stop_loss" validate:"omitempty,gte=0"`
	TakeProfit float64 `json:"take_profit" validate:"omitempty,gte=0"`
}

// PlaceMarketOrder 下市价单
// POST /api/trading/orders/market
func (h *TradingHandler) PlaceMarketOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	var req MarketOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.engineService.PlaceMarketOrder(ctx, userID,
		models.OrderSide(req.Side), req.Quantity, req.StopLoss, req.TakeProfit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// PlaceLimitOrder 下限价单
// POST /api/trading/orders/limit
func (h *TradingHandler) PlaceLimitOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	var req LimitOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.engineService.PlaceLimitOrder(ctx, userID,
		models.OrderSide(req.Side), req.Quantity, req.Price, req.StopLoss, req.TakeProfit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ClosePosition 手动平仓
// POST /api/trading/positions/:id/close
func (h *TradingHandler) ClosePosition(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)
	positionID := c.Param("id")

	result, err := h.engineService.ClosePosition(ctx, userID, positionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// CancelOrder 撤销挂单
// POST /api/trading/orders/:id/cancel
func (h *TradingHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)
	orderID := c.Param("id")

	order, err := h.engineService.CancelOrder(ctx, userID, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// GetPortfolio 获取完整账户
// GET /api/trading/portfolio
func (h *TradingHandler) GetPortfolio(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	portfolio, err := h.portfolioService.Load(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, portfolio)
}

// GetPositions 获取当前持仓
// GET /api/trading/positions
func (h *TradingHandler) GetPositions(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	portfolio, err := h.portfolioService.Load(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, portfolio.Positions)
}

// GetOrders 获取订单，支持 ?status=pending 过滤
// GET /api/trading/orders
func (h *TradingHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	portfolio, err := h.portfolioService.Load(ctx, userID)
	if err != nil {
		return err
	}

	status := c.QueryParam("status")
	if status == "" {
		return c.JSON(http.StatusOK, portfolio.Orders)
	}

	orders := make([]models.Order, 0, len(portfolio.Orders))
	for _, order := range portfolio.Orders {
		if string(order.Status) == status {
			orders = append(orders, order)
		}
	}
	return c.JSON(http.StatusOK, orders)
}

// GetTrades 获取成交历史，支持 ?limit=N 截取最近N条
// GET /api/trading/trades
func (h *TradingHandler) GetTrades(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	portfolio, err := h.portfolioService.Load(ctx, userID)
	if err != nil {
		return err
	}

	trades := []models.Trade(portfolio.Trades)
	limit := cast.ToInt(c.QueryParam("limit"))
	if limit > 0 && limit < len(trades) {
		trades = trades[len(trades)-limit:]
	}
	return c.JSON(http.StatusOK, trades)
}

// GetStats 获取绩效统计
// GET /api/trading/stats
func (h *TradingHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	stats, err := h.analyticsService.GetStats(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// GetEquityCurve 获取资金曲线数据点
// GET /api/trading/equity-curve
func (h *TradingHandler) GetEquityCurve(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	portfolio, err := h.portfolioService.Load(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, portfolio.EquityCurve)
}

// GetEquityCurveImage 获取资金曲线PNG图
// GET /api/trading/equity-curve.png
func (h *TradingHandler) GetEquityCurveImage(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	png, err := h.chartService.RenderEquityCurve(ctx, userID)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// GetSnapshots 获取账户快照历史
// GET /api/trading/snapshots
func (h *TradingHandler) GetSnapshots(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Get("user_id").(string)

	snapshots, err := h.snapshotService.History(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshots)
}

// RegisterRoutes 注册路由
func (h *TradingHandler) RegisterRoutes(g *echo.Group) {
	trading := g.Group("/trading")

	// 查询接口
	trading.GET("/portfolio", h.GetPortfolio)
	trading.GET("/positions", h.GetPositions)
	trading.GET("/orders", h.GetOrders)
	trading.GET("/trades", h.GetTrades)
	trading.GET("/stats", h.GetStats)
	trading.GET("/equity-curve", h.GetEquityCurve)
	trading.GET("/equity-curve.png", h.GetEquityCurveImage)
	trading.GET("/snapshots", h.GetSnapshots)

	// 交易接口
	trading.POST("/orders/market", h.PlaceMarketOrder)
	trading.POST("/orders/limit", h.PlaceLimitOrder)
	trading.POST("/orders/:id/cancel", h.CancelOrder)
	trading.POST("/positions/:id/close", h.ClosePosition)
}
