package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCreds(t *testing.T) {
	t.Setenv("BINANCE_TESTNET_API_KEY", "key-123456")
	t.Setenv("BINANCE_TESTNET_SECRET_KEY", "secret-123456")
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	setCreds(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", cfg.Trading.Symbol)
	assert.Equal(t, "1m", cfg.Trading.Interval)
	assert.Equal(t, 1, cfg.Trading.ChannelLength)
	assert.Equal(t, 5, cfg.Trading.KlineLimit)
	assert.Equal(t, 0.5, cfg.Trading.PriceOffset)
	assert.Equal(t, 0.00015, cfg.Position.LongThreshold)
	assert.Equal(t, 8.0, cfg.Sizer.FallbackQuantity)
	assert.Equal(t, int32(4), cfg.Sizer.Precision)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.Retry.BaseDelay)
	assert.True(t, cfg.Retry.Jitter)
	assert.True(t, cfg.Binance.Testnet)
	assert.Equal(t, 10*time.Second, cfg.Binance.HTTPTimeout)
	assert.Equal(t, "trade_log.csv", cfg.TradeLog.File)
	assert.Equal(t, ":8080", cfg.Service.HealthAddr)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	setCreds(t)
	t.Setenv("BOT_SYMBOL", "ETHUSDT")
	t.Setenv("TELEGRAM_CHAT_ID", "4242")
	path := writeFile(t, `
trading:
  symbol: BTCUSDT
  channel_length: 3
  kline_limit: 10
retry:
  base_delay: 500ms
schedule:
  pause: 2s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDT", cfg.Trading.Symbol, "env wins over file")
	assert.Equal(t, 3, cfg.Trading.ChannelLength)
	assert.Equal(t, 10, cfg.Trading.KlineLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, 2*time.Second, cfg.Schedule.Pause)
	assert.Equal(t, int64(4242), cfg.Telegram.ChatID)
	assert.Equal(t, 0.5, cfg.Trading.PriceOffset, "untouched keys keep defaults")
	assert.Equal(t, "key-123456", cfg.Binance.APIKey)
}

func TestLoad_MissingCredentialsIsFatal(t *testing.T) {
	t.Setenv("BINANCE_TESTNET_API_KEY", "")
	t.Setenv("BINANCE_TESTNET_SECRET_KEY", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	setCreds(t)
	path := writeFile(t, `
trading:
  channel_length: 5
  kline_limit: 5
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "KlineLimit")
}

func TestLoad_BrokenYAML(t *testing.T) {
	setCreds(t)
	path := writeFile(t, "trading: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDump_MasksSecrets(t *testing.T) {
	setCreds(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	out := cfg.Dump()
	assert.Contains(t, out, "key-****")
	assert.NotContains(t, out, "secret-123456")
	assert.Contains(t, out, "symbol: BTCUSDT")
}
