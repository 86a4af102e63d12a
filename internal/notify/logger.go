package notify

import (
	"context"

	"go.uber.org/zap"
)

// LoggerNotifier 把引擎事件输出到结构化日志，始终启用
type LoggerNotifier struct {
	logger *zap.Logger
}

// NewLoggerNotifier 创建日志通知器
func NewLoggerNotifier(logger *zap.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

func (n *LoggerNotifier) Notify(_ context.Context, event Event) {
	fields := []zap.Field{
		zap.String("kind", string(event.Kind)),
		zap.String("user_id", event.UserID),
		zap.String("side", event.Side),
		zap.Float64("quantity", event.Quantity),
		zap.Float64("price", event.Price),
	}

	switch event.Kind {
	case EventPositionClosed:
		fields = append(fields,
			zap.Float64("pnl", event.Pnl),
			zap.Float64("pnl_percent", event.PnlPercent),
			zap.String("reason", string(event.Reason)))
	case EventOrderFilled:
		fields = append(fields, zap.String("order_type", event.OrderType))
	}

	n.logger.Info("trading event", fields...)
}
