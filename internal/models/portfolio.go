package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// DefaultInitialBalance 新账户的初始模拟资金（USDT）
	DefaultInitialBalance = 10000.0

	// FeeRate 模拟手续费率（0.1%）
	FeeRate = 0.001

	// EquityCurveMaxPoints 资金曲线最大采样点数，超出后淘汰最旧的点
	EquityCurveMaxPoints = 500
)

// EquityPoint 资金曲线采样点
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   float64   `json:"balance"`
}

// Portfolio 模拟账户，每个用户一条记录，是所有仓位/订单/成交数据的根聚合
type Portfolio struct {
	ID          string                           `gorm:"primaryKey;type:varchar(26)" json:"id"` // 用户ID
	Balance     float64                          `gorm:"type:decimal(20,8);not null" json:"balance"`
	PeakBalance float64                          `gorm:"type:decimal(20,8);not null" json:"peak_balance"`
	Positions   datatypes.JSONSlice[Position]    `json:"positions"`
	Orders      datatypes.JSONSlice[Order]       `json:"orders"`
	Trades      datatypes.JSONSlice[Trade]       `json:"trades"`
	EquityCurve datatypes.JSONSlice[EquityPoint] `json:"equity_curve"`
	CreatedAt   time.Time                        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                        `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Portfolio) TableName() string {
	return "portfolios"
}

// NewPortfolio 创建默认模拟账户
func NewPortfolio(userID string, initialBalance float64, now time.Time) *Portfolio {
	if initialBalance <= 0 {
		initialBalance = DefaultInitialBalance
	}
	return &Portfolio{
		ID:          userID,
		Balance:     initialBalance,
		PeakBalance: initialBalance,
		Positions:   datatypes.JSONSlice[Position]{},
		Orders:      datatypes.JSONSlice[Order]{},
		Trades:      datatypes.JSONSlice[Trade]{},
		EquityCurve: datatypes.JSONSlice[EquityPoint]{{Timestamp: now, Balance: initialBalance}},
	}
}

// FindPosition 按ID查找持仓，返回指向聚合内元素的指针
func (p *Portfolio) FindPosition(id string) *Position {
	for i := range p.Positions {
		if p.Positions[i].ID == id {
			return &p.Positions[i]
		}
	}
	return nil
}

// RemovePosition 从持仓集合中移除指定持仓
func (p *Portfolio) RemovePosition(id string) bool {
	for i := range p.Positions {
		if p.Positions[i].ID == id {
			p.Positions = append(p.Positions[:i], p.Positions[i+1:]...)
			return true
		}
	}
	return false
}

// FindOrder 按ID查找订单，返回指向聚合内元素的指针
func (p *Portfolio) FindOrder(id string) *Order {
	for i := range p.Orders {
		if p.Orders[i].ID == id {
			return &p.Orders[i]
		}
	}
	return nil
}

// AppendEquityPoint 追加一个资金曲线采样点，必要时淘汰最旧的点
func (p *Portfolio) AppendEquityPoint(now time.Time) {
	p.EquityCurve = append(p.EquityCurve, EquityPoint{Timestamp: now, Balance: p.Balance})
	if n := len(p.EquityCurve); n > EquityCurveMaxPoints {
		p.EquityCurve = p.EquityCurve[n-EquityCurveMaxPoints:]
	}
}

// RaisePeak 如果当前余额超过历史峰值则更新峰值
func (p *Portfolio) RaisePeak() {
	if p.Balance > p.PeakBalance {
		p.PeakBalance = p.Balance
	}
}
