package config

// RoutingConfig holds order routing configuration
type RoutingConfig struct {
	// Batch settings for routing all unrouted orders in one pass
	Batch BatchConfig `mapstructure:"batch"`

	// History query paging
	History HistoryConfig `mapstructure:"history"`
}

// BatchConfig bounds the concurrency and throughput of batch routing
type BatchConfig struct {
	// Maximum number of orders routed concurrently
	Concurrency int `mapstructure:"concurrency" validate:"min=1"`

	// Orders started per second across all workers
	RatePerSecond int `mapstructure:"rate_per_second" validate:"min=1"`
}

// HistoryConfig holds routing history paging limits
type HistoryConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"min=1"`
	MaxLimit     int `mapstructure:"max_limit" validate:"min=1"`
}
