package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Store)
	require.Equal(t, 100, cfg.Fee.RateBps) // 1% platform fee by default
	require.Equal(t, "platform", cfg.Fee.Collector)
	require.EqualValues(t, 8080, cfg.HTTP.Port)
}

func TestLoadRejectsFeeRateOutOfRange(t *testing.T) {
	t.Setenv("FEE_RATE_BPS", "20000")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsEmptyCollector(t *testing.T) {
	t.Setenv("FEE_COLLECTOR", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("STORE", "cassandra")
	_, err := Load()
	require.Error(t, err)
}
