package config

type Config struct {
	Telegram TelegramConf `json:"telegram"`
	Binance  BinanceConf  `json:"binance"`
	Trading  TradingConf  `json:"trading"`
	Auth     AuthConf     `json:"auth"`
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}

type BinanceConf struct {
	Symbol    string `json:"symbol"`     // 交易对，默认 BTCUSDT
	ProxyURL  string `json:"proxy_url"`  // 代理地址，例如: http://127.0.0.1:7890
	Synthetic bool   `json:"synthetic"`  // true时不连接币安，使用合成行情源
}

type TradingConf struct {
	InitialBalance          float64 `json:"initial_balance"`           // 新账户初始资金（USDT），默认10000
	SnapshotIntervalMinutes int     `json:"snapshot_interval_minutes"` // 账户快照周期（分钟），默认10
}

type AuthConf struct {
	JWTSecret string `json:"jwt_secret"` // 为空时每次启动随机生成
}
