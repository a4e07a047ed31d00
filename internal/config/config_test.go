package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
evm:
  walletRpcURL: "http://127.0.0.1:8545"
  tokenAddress: "0x55d398326f99059fF775485246999027B3197955"
tron:
  fullNodeURL: "https://api.trongrid.io"
  tokenAddress: "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, uint64(56), cfg.EVM.ChainID)
	assert.Equal(t, 18, cfg.EVM.TokenDecimals)
	assert.Equal(t, 18, cfg.Tron.TokenDecimals)
	assert.Equal(t, "tron-mainnet", cfg.Tron.MainNetwork)
	assert.Equal(t, int64(100_000_000), cfg.Tron.FeeLimit)
	assert.NotEmpty(t, cfg.Tron.Networks)
	assert.Equal(t, 15, cfg.Cache.BalanceTTLSeconds)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("EVM_WALLET_RPC_URL", "http://10.0.0.1:8545")
	t.Setenv("TRON_FULL_NODE_URL", "https://nile.trongrid.io")
	t.Setenv("TRON_API_KEY", "secret")
	t.Setenv("TRON_WALLET_ADDRESS", "TWalletFromEnv")

	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.1:8545", cfg.EVM.WalletRPCURL)
	assert.Equal(t, "https://nile.trongrid.io", cfg.Tron.FullNodeURL)
	assert.Equal(t, "secret", cfg.Tron.APIKey)
	assert.Equal(t, "TWalletFromEnv", cfg.Tron.WalletAddress)
}

func TestLoadConfigRequiresEndpointsAndTokens(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "missing evm wallet url",
			content: `
evm:
  tokenAddress: "0xabc"
tron:
  fullNodeURL: "https://api.trongrid.io"
  tokenAddress: "Tabc"
`,
			want: "walletRpcURL",
		},
		{
			name: "missing evm token",
			content: `
evm:
  walletRpcURL: "http://127.0.0.1:8545"
tron:
  fullNodeURL: "https://api.trongrid.io"
  tokenAddress: "Tabc"
`,
			want: "tokenAddress",
		},
		{
			name: "missing tron node",
			content: `
evm:
  walletRpcURL: "http://127.0.0.1:8545"
  tokenAddress: "0xabc"
tron:
  tokenAddress: "Tabc"
`,
			want: "fullNodeURL",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadConfigRejectsIncompleteChainEntry(t *testing.T) {
	content := `
evm:
  walletRpcURL: "http://127.0.0.1:8545"
  tokenAddress: "0x55d398326f99059fF775485246999027B3197955"
  chains:
    - chainId: 56
      identifier: "bsc"
tron:
  fullNodeURL: "https://api.trongrid.io"
  tokenAddress: "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"
`
	_, err := LoadConfig(writeConfig(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
