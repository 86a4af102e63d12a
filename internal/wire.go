//go:build wireinject
// +build wireinject

package internal

import (
	"context"
	"net/http"
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/papertrade/internal/config"
	"github.com/dushixiang/papertrade/internal/handler"
	"github.com/dushixiang/papertrade/internal/notify"
	"github.com/dushixiang/papertrade/internal/repo"
	"github.com/dushixiang/papertrade/internal/service"
	"github.com/dushixiang/papertrade/pkg/exchange"
)

const telegramHTTPTimeout = 10 * time.Second

// AppComponents 应用组件
type AppComponents struct {
	AuthHandler    *handler.AuthHandler
	TradingHandler *handler.TradingHandler
	MarketHandler  *handler.MarketHandler

	AuthService     *service.AuthService
	EngineService   *service.EngineService
	TriggerService  *service.TriggerService
	SnapshotService *service.SnapshotService

	Feed exchange.Feed
}

var (
	handlerSet = wire.NewSet(
		handler.NewAuthHandler,
		handler.NewTradingHandler,
		handler.NewMarketHandler,
	)

	tradingSet = wire.NewSet(
		repo.NewUserRepo,
		repo.NewAccountSnapshotRepo,
		service.NewPortfolioService,
		service.NewIndicatorService,
		service.NewEngineService,
		service.NewTriggerService,
		service.NewAnalyticsService,
		service.NewChartService,
		provideAuthService,
		provideNotifier,
		provideFeed,
		providePriceSource,
		provideMarketClient,
		provideMarketService,
		provideSnapshotService,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		tradingSet,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}

// provideAuthService provides auth service with JWT secret from config
func provideAuthService(logger *zap.Logger, userRepo *repo.UserRepo, conf *config.Config) *service.AuthService {
	return service.NewAuthService(logger, userRepo, conf.Auth.JWTSecret)
}

// provideNotifier provides the event notifier chain
func provideNotifier(logger *zap.Logger, conf *config.Config) notify.Notifier {
	notifiers := notify.Multi{notify.NewLoggerNotifier(logger)}

	if conf.Telegram.Enabled {
		httpClient := &http.Client{Timeout: telegramHTTPTimeout}
		tg, err := notify.NewTelegramNotifier(logger, notify.TelegramSettings{
			Token:  conf.Telegram.Token,
			ChatID: conf.Telegram.ChatID,
			Client: httpClient,
		})
		if err != nil {
			logger.Error("failed to init telegram notifier", zap.Error(err))
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	return notifiers
}

// provideFeed provides the price feed wired to the trigger evaluator
func provideFeed(conf *config.Config, triggerService *service.TriggerService, logger *zap.Logger) exchange.Feed {
	handler := func(tick exchange.Tick) {
		triggerService.HandleTick(context.Background(), tick)
	}

	if conf.Binance.Synthetic {
		logger.Info("using synthetic price feed")
		return exchange.NewSyntheticFeed(handler, logger)
	}

	symbol := conf.Binance.Symbol
	if symbol == "" {
		symbol = "BTCUSDT"
	}
	logger.Info("using binance trade stream", zap.String("symbol", symbol))
	return exchange.NewBinanceFeed(symbol, handler, logger)
}

// providePriceSource exposes the feed as a read-only price source
func providePriceSource(feed exchange.Feed) service.PriceSource {
	return feed
}

// provideMarketClient provides the Binance REST client
func provideMarketClient(conf *config.Config, logger *zap.Logger) (*exchange.MarketClient, error) {
	client, err := exchange.NewMarketClient(conf.Binance.ProxyURL)
	if err != nil {
		return nil, err
	}
	logger.Info("binance market client initialized",
		zap.Bool("has_proxy", conf.Binance.ProxyURL != ""))
	return client, nil
}

// provideMarketService provides market data service with symbol from config
func provideMarketService(logger *zap.Logger, client *exchange.MarketClient, indicators *service.IndicatorService, conf *config.Config) *service.MarketService {
	return service.NewMarketService(logger, client, indicators, conf.Binance.Symbol)
}

// provideSnapshotService provides the account snapshot scheduler
func provideSnapshotService(
	logger *zap.Logger,
	portfolioService *service.PortfolioService,
	snapshotRepo *repo.AccountSnapshotRepo,
	prices service.PriceSource,
	conf *config.Config,
) *service.SnapshotService {
	return service.NewSnapshotService(logger, portfolioService, snapshotRepo, prices, conf.Trading.SnapshotIntervalMinutes)
}
