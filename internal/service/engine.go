package service

import (
	"math"
	"time"

	"github.com/dushixiang/papertrade/internal/models"
	"github.com/dushixiang/papertrade/internal/xe"
	"github.com/oklog/ulid/v2"
)

// 账本原语：在单个账户聚合上执行下单/成交/平仓/撤单
// 调用方（EngineService、TriggerService）负责加锁与持久化，
// 所有校验都在变更之前完成，返回错误时账户保持原状

// MarketOrderResult 市价成交结果
type MarketOrderResult struct {
	Position *models.Position `json:"position"`
	Order    *models.Order    `json:"order"`
	Price    float64          `json:"price"`
	Fee      float64          `json:"fee"`
}

// CloseResult 平仓结果
type CloseResult struct {
	Trade      *models.Trade `json:"trade"`
	Pnl        float64       `json:"pnl"`
	PnlPercent float64       `json:"pnl_percent"`
	Price      float64       `json:"price"`
}

// executeMarketOrder 以当前价格立即成交一笔市价单并开仓
// 买入方向在成交前校验余额并扣除 成本+手续费；做空不预扣资金（简化的无保证金做空模型）
func executeMarketOrder(p *models.Portfolio, side models.OrderSide, quantity, price, stopLoss, takeProfit float64, now time.Time) (*MarketOrderResult, error) {
	if quantity <= 0 {
		return nil, xe.ErrInvalidQuantity
	}
	if price <= 0 {
		return nil, xe.ErrInvalidPrice
	}

	fee := price * quantity * models.FeeRate
	totalCost := price*quantity + fee

	if side == models.OrderSideBuy && p.Balance < totalCost {
		return nil, xe.ErrInsufficientBalance
	}

	filledAt := now
	position := models.Position{
		ID:         ulid.Make().String(),
		Side:       side.PositionSide(),
		EntryPrice: price,
		Quantity:   quantity,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Fee:        fee,
		Status:     models.PositionStatusOpen,
		CreatedAt:  now,
	}
	order := models.Order{
		ID:          ulid.Make().String(),
		PositionID:  position.ID,
		Type:        models.OrderTypeMarket,
		Side:        side,
		Quantity:    quantity,
		FilledPrice: price,
		Fee:         fee,
		Status:      models.OrderStatusFilled,
		CreatedAt:   now,
		FilledAt:    &filledAt,
	}

	p.Positions = append(p.Positions, position)
	p.Orders = append(p.Orders, order)

	if side == models.OrderSideBuy {
		p.Balance -= totalCost
	}

	return &MarketOrderResult{
		Position: p.FindPosition(position.ID),
		Order:    p.FindOrder(order.ID),
		Price:    price,
		Fee:      fee,
	}, nil
}

// executeLimitOrder 创建一笔待成交的限价单，下单时不冻结资金
// 手续费按限价预估，真正成交时按成交价重算
func executeLimitOrder(p *models.Portfolio, side models.OrderSide, quantity, limitPrice, stopLoss, takeProfit float64, now time.Time) (*models.Order, error) {
	if quantity <= 0 {
		return nil, xe.ErrInvalidQuantity
	}
	if limitPrice <= 0 {
		return nil, xe.ErrInvalidPrice
	}

	order := models.Order{
		ID:         ulid.Make().String(),
		Type:       models.OrderTypeLimit,
		Side:       side,
		Quantity:   quantity,
		Price:      limitPrice,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Fee:        limitPrice * quantity * models.FeeRate,
		Status:     models.OrderStatusPending,
		CreatedAt:  now,
	}

	p.Orders = append(p.Orders, order)
	return p.FindOrder(order.ID), nil
}

// fillLimitOrder 按当前tick价格成交一笔挂单，状态变更与市价成交完全一致
// 买入方向余额不足时订单保持pending，等待后续tick重试
func fillLimitOrder(p *models.Portfolio, orderID string, price float64, now time.Time) (*MarketOrderResult, error) {
	order := p.FindOrder(orderID)
	if order == nil {
		return nil, xe.ErrOrderNotFound
	}
	if !order.IsPending() {
		return nil, xe.ErrOrderNotCancellable
	}
	if price <= 0 {
		return nil, xe.ErrInvalidPrice
	}

	fee := price * order.Quantity * models.FeeRate
	totalCost := price*order.Quantity + fee

	if order.Side == models.OrderSideBuy && p.Balance < totalCost {
		return nil, xe.ErrInsufficientBalance
	}

	position := models.Position{
		ID:         ulid.Make().String(),
		Side:       order.Side.PositionSide(),
		EntryPrice: price,
		Quantity:   order.Quantity,
		StopLoss:   order.StopLoss,
		TakeProfit: order.TakeProfit,
		Fee:        fee,
		Status:     models.PositionStatusOpen,
		CreatedAt:  now,
	}
	p.Positions = append(p.Positions, position)

	filledAt := now
	order.Status = models.OrderStatusFilled
	order.FilledPrice = price
	order.Fee = fee
	order.FilledAt = &filledAt
	order.PositionID = position.ID

	if order.Side == models.OrderSideBuy {
		p.Balance -= totalCost
	}

	return &MarketOrderResult{
		Position: p.FindPosition(position.ID),
		Order:    order,
		Price:    price,
		Fee:      fee,
	}, nil
}

// executeClose 按当前价格平仓：移除持仓、返还资金、追加一条成交记录和一个资金曲线点
// 返还资金在0处截断，避免单次平仓让模拟余额变为负数
func executeClose(p *models.Portfolio, positionID string, price float64, now time.Time) (*CloseResult, error) {
	pos := p.FindPosition(positionID)
	if pos == nil {
		return nil, xe.ErrPositionNotFound
	}
	if price <= 0 {
		return nil, xe.ErrInvalidPrice
	}

	closeFee := price * pos.Quantity * models.FeeRate

	var pnl float64
	if pos.Side == models.PositionSideLong {
		pnl = (price-pos.EntryPrice)*pos.Quantity - pos.Fee - closeFee
	} else {
		pnl = (pos.EntryPrice-price)*pos.Quantity - pos.Fee - closeFee
	}

	entryValue := pos.EntryValue()
	pnlPercent := 0.0
	if entryValue > 0 {
		pnlPercent = pnl / entryValue * 100
	}

	if pos.Side == models.PositionSideLong {
		p.Balance += math.Max(0, price*pos.Quantity-closeFee)
	} else {
		p.Balance += math.Max(0, entryValue+pnl)
	}

	trade := models.Trade{
		ID:         ulid.Make().String(),
		PositionID: pos.ID,
		Side:       pos.Side,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  price,
		Quantity:   pos.Quantity,
		Pnl:        pnl,
		PnlPercent: pnlPercent,
		Fee:        pos.Fee + closeFee,
		Duration:   int64(now.Sub(pos.CreatedAt) / time.Second),
		CreatedAt:  now,
	}

	p.RemovePosition(positionID)
	p.Trades = append(p.Trades, trade)
	p.AppendEquityPoint(now)
	p.RaisePeak()

	return &CloseResult{
		Trade:      &p.Trades[len(p.Trades)-1],
		Pnl:        pnl,
		PnlPercent: pnlPercent,
		Price:      price,
	}, nil
}

// executeCancel 撤销一笔挂单，只有pending状态允许撤销
func executeCancel(p *models.Portfolio, orderID string) (*models.Order, error) {
	order := p.FindOrder(orderID)
	if order == nil {
		return nil, xe.ErrOrderNotFound
	}
	if !order.IsPending() {
		return nil, xe.ErrOrderNotCancellable
	}

	order.Status = models.OrderStatusCancelled
	return order, nil
}
