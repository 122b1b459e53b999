package app

import (
	"fmt"
	"time"

	"github.com/pvzzle/chainlens/internal/httpapi"
	"github.com/pvzzle/chainlens/internal/rpc"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

type Config struct {
	Port       int    `env:"PORT"`
	BaseRPCURL string `env:"BASE_RPC_URL"`
	Network    string `env:"NETWORK"`

	// PayTo and PaymentNetwork are handed to the x402 facilitator.
	PayTo          string `env:"ADDRESS"`
	PaymentNetwork string `env:"PAYMENT_NETWORK"`

	RPCTimeout        time.Duration `env:"RPC_TIMEOUT"`
	RPCMaxAttempts    int           `env:"RPC_MAX_ATTEMPTS"`
	RPCRetryBaseDelay time.Duration `env:"RPC_RETRY_BASE_DELAY"`
	RPCRateLimit      float64       `env:"RPC_RATE_LIMIT"`
	RPCRateBurst      int           `env:"RPC_RATE_BURST"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
}

func defaultConfig() Config {
	return Config{
		Port:              4020,
		BaseRPCURL:        "https://mainnet.base.org",
		Network:           "base",
		PayTo:             "0x0000000000000000000000000000000000000000",
		PaymentNetwork:    "base-sepolia",
		RPCTimeout:        10 * time.Second,
		RPCMaxAttempts:    3,
		RPCRetryBaseDelay: 200 * time.Millisecond,
		RPCRateBurst:      10,
		RequestTimeout:    20 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		CORSOrigins:       []string{"*"},
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

func LoadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Warning: .env file not found, relying on environment variables")
	}
	return parseConfig()
}

func parseConfig() (Config, error) {
	config := defaultConfig()

	if err := env.Parse(&config); err != nil {
		return Config{}, err
	}
	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.BaseRPCURL == "" {
		return fmt.Errorf("BASE_RPC_URL is empty")
	}
	if !common.IsHexAddress(c.PayTo) {
		return fmt.Errorf("ADDRESS is not a hex address: %q", c.PayTo)
	}
	if c.RPCMaxAttempts <= 0 {
		return fmt.Errorf("RPC_MAX_ATTEMPTS must be positive: %d", c.RPCMaxAttempts)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) RPC() rpc.Config {
	return rpc.Config{
		URL:            c.BaseRPCURL,
		Timeout:        c.RPCTimeout,
		MaxAttempts:    c.RPCMaxAttempts,
		RetryBaseDelay: c.RPCRetryBaseDelay,
		RateLimit:      c.RPCRateLimit,
		RateBurst:      c.RPCRateBurst,
	}
}

func (c Config) HTTP() httpapi.Config {
	return httpapi.Config{
		RequestTimeout: c.RequestTimeout,
		CORSOrigins:    c.CORSOrigins,
	}
}
