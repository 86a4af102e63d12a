package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

// TelegramNotifier 把引擎事件推送到Telegram
type TelegramNotifier struct {
	logger *zap.Logger
	chatID string
	client *tele.Bot
}

// TelegramSettings Telegram机器人配置
type TelegramSettings struct {
	Token  string
	ChatID string
	Client *http.Client
}

// NewTelegramNotifier 创建Telegram通知器
func NewTelegramNotifier(logger *zap.Logger, settings TelegramSettings) (*TelegramNotifier, error) {
	poller := &tele.LongPoller{Timeout: 10 * time.Second}

	client, err := tele.NewBot(tele.Settings{
		ParseMode: tele.ModeMarkdown,
		Token:     settings.Token,
		Poller:    poller,
		Client:    settings.Client,
	})
	if err != nil {
		return nil, err
	}

	client.Use(middleware.AutoRespond())

	return &TelegramNotifier{
		logger: logger,
		chatID: settings.ChatID,
		client: client,
	}, nil
}

func (n *TelegramNotifier) Notify(_ context.Context, event Event) {
	msg := renderMessage(event)
	if msg == "" {
		return
	}

	chatID := cast.ToInt64(n.chatID)
	if _, err := n.client.Send(tele.ChatID(chatID), msg, &tele.SendOptions{ParseMode: tele.ModeMarkdown}); err != nil {
		n.logger.Warn("failed to send telegram notification",
			zap.String("kind", string(event.Kind)),
			zap.Error(err))
	}
}

// renderMessage 把结构化事件渲染为Telegram文案
func renderMessage(event Event) string {
	switch event.Kind {
	case EventOrderFilled:
		return fmt.Sprintf("✅ *订单成交*\n%s %.5f BTC @ $%.2f (%s)",
			event.Side, event.Quantity, event.Price, event.OrderType)
	case EventPositionClosed:
		icon := "📈"
		if event.Pnl < 0 {
			icon = "📉"
		}
		return fmt.Sprintf("%s *平仓 (%s)*\n%s %.5f BTC @ $%.2f\n盈亏: $%.2f (%.2f%%)",
			icon, closeReasonText(event.Reason), event.Side, event.Quantity, event.Price,
			event.Pnl, event.PnlPercent)
	case EventOrderCancelled:
		return fmt.Sprintf("🚫 *订单已撤销*\n%s %.5f BTC", event.Side, event.Quantity)
	}
	return ""
}

func closeReasonText(reason CloseReason) string {
	switch reason {
	case ReasonStopLoss:
		return "止损"
	case ReasonTakeProfit:
		return "止盈"
	default:
		return "手动"
	}
}
