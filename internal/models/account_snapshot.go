package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountSnapshot 账户定时快照，用于绩效页面的长周期指标
type AccountSnapshot struct {
	ID               string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	UserID           string         `gorm:"type:varchar(26);not null;index" json:"user_id"`
	Balance          float64        `gorm:"type:decimal(20,8);not null" json:"balance"`          // 可用余额
	Equity           float64        `gorm:"type:decimal(20,8);not null" json:"equity"`           // 余额+未实现盈亏
	UnrealizedPnl    float64        `gorm:"type:decimal(20,8)" json:"unrealized_pnl"`            // 未实现盈亏
	PeakBalance      float64        `gorm:"type:decimal(20,8)" json:"peak_balance"`              // 峰值资金
	ReturnPercent    float64        `gorm:"type:decimal(10,4)" json:"return_percent"`            // 相对初始资金的收益率
	DrawdownFromPeak float64        `gorm:"type:decimal(10,4)" json:"drawdown_from_peak"`        // 从峰值的回撤
	SharpeRatio      float64        `gorm:"type:decimal(10,4)" json:"sharpe_ratio"`              // 夏普比率
	OpenPositions    int            `gorm:"type:int" json:"open_positions"`                      // 快照时的持仓数
	RecordedAt       time.Time      `gorm:"not null;index" json:"recorded_at"`                   // 记录时间
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (AccountSnapshot) TableName() string {
	return "account_snapshots"
}
