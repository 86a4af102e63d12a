package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
)

// MarketClient Binance现货行情客户端，只使用公共接口，无需API密钥
type MarketClient struct {
	client *binance.Client
}

// NewMarketClient 创建行情客户端
func NewMarketClient(proxyURL string) (*MarketClient, error) {
	client := binance.NewClient("", "")

	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proxy URL: %w", err)
		}
		client.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyURL(u),
			},
		}
	}

	return &MarketClient{client: client}, nil
}

// GetKlines 获取K线数据，endTime为零值时取最新的limit根，返回结果按时间从旧到新
func (b *MarketClient) GetKlines(ctx context.Context, symbol string, interval string, limit int, endTime time.Time) ([]*Kline, error) {
	svc := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit)

	if !endTime.IsZero() {
		svc = svc.EndTime(endTime.UnixMilli())
	}

	klines, err := svc.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	result := make([]*Kline, 0, len(klines))
	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		result = append(result, &Kline{
			OpenTime:  time.Unix(k.OpenTime/1000, 0),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
			CloseTime: time.Unix(k.CloseTime/1000, 0),
		})
	}

	return result, nil
}

// GetTicker24h 获取24小时行情统计
func (b *MarketClient) GetTicker24h(ctx context.Context, symbol string) (*Ticker24h, error) {
	stats, err := b.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get 24h ticker: %w", err)
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("empty 24h ticker response for %s", symbol)
	}

	s := stats[0]
	lastPrice, _ := strconv.ParseFloat(s.LastPrice, 64)
	change, _ := strconv.ParseFloat(s.PriceChange, 64)
	changePercent, _ := strconv.ParseFloat(s.PriceChangePercent, 64)
	high, _ := strconv.ParseFloat(s.HighPrice, 64)
	low, _ := strconv.ParseFloat(s.LowPrice, 64)
	volume, _ := strconv.ParseFloat(s.Volume, 64)
	quoteVolume, _ := strconv.ParseFloat(s.QuoteVolume, 64)

	return &Ticker24h{
		LastPrice:     lastPrice,
		Change:        change,
		ChangePercent: changePercent,
		High:          high,
		Low:           low,
		Volume:        volume,
		QuoteVolume:   quoteVolume,
	}, nil
}

// GetCurrentPrice 获取当前最新价格
func (b *MarketClient) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := b.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current price: %w", err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("empty price response for %s", symbol)
	}

	price, err := strconv.ParseFloat(prices[0].Price, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price %q: %w", prices[0].Price, err)
	}

	return price, nil
}
