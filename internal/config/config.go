package config

import (
	"fmt"
	"os"

	"walletbridge/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the bridge.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	EVM     EVMConfig     `yaml:"evm"`
	Tron    TronConfig    `yaml:"tron"`
	Cache   CacheConfig   `yaml:"cache"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// EVMConfig holds the EVM-side wallet and token configuration.
type EVMConfig struct {
	// ChainID is the id of the chain the bridge treats as BSC.
	ChainID uint64 `yaml:"chainID"`
	// WalletRPCURL is the endpoint of the EVM wallet session (EIP-1193 style
	// JSON-RPC surface).
	WalletRPCURL string `yaml:"walletRpcURL"`
	// TokenAddress is the preconfigured token contract (0x...).
	TokenAddress  string `yaml:"tokenAddress"`
	TokenDecimals int    `yaml:"tokenDecimals"`
	RPCTimeoutMs  int64  `yaml:"rpcTimeoutMs"`
	// Chains is the add-chain registry used by wallet_addEthereumChain when a
	// switch target is unknown to the wallet.
	Chains []entity.ChainDefinition `yaml:"chains"`
}

// TronNetworkEntry maps a full-node host to a symbolic network identifier.
// The resolver classifies Tron sessions by host since Tron wallets expose no
// canonical chain id.
type TronNetworkEntry struct {
	Host    string `yaml:"host"`
	Network string `yaml:"network"`
}

// TronConfig holds the Tron-side wallet and token configuration.
type TronConfig struct {
	// FullNodeURL is the full-node endpoint the Tron wallet session points at.
	FullNodeURL string `yaml:"fullNodeURL"`
	// APIKey is optional; TRON_API_KEY overrides it.
	APIKey string `yaml:"apiKey"`
	// WalletAddress is the base58 account of the wallet session. Empty means
	// the session has no account instance yet (connect attempts will prompt).
	WalletAddress string `yaml:"walletAddress"`
	// TokenAddress is the preconfigured token contract in base58 (T...).
	TokenAddress  string `yaml:"tokenAddress"`
	TokenDecimals int    `yaml:"tokenDecimals"`
	// MainNetwork is the symbolic id the bridge treats as TRON when selected.
	MainNetwork string `yaml:"mainNetwork"`
	// Networks is the host classifier table.
	Networks []TronNetworkEntry `yaml:"networks"`
	// FeeLimit for triggersmartcontract sends, in SUN.
	FeeLimit         int64  `yaml:"feeLimit"`
	RequestTimeoutMs int64  `yaml:"requestTimeoutMs"`
	LimiterPeriod    string `yaml:"limiterPeriod"`
	LimiterBurst     int    `yaml:"limiterBurst"`
}

// CacheConfig holds configuration for caching.
type CacheConfig struct {
	BalanceTTLSeconds      int `yaml:"balanceTTLSeconds"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides. Missing required values are returned as errors; callers treat
// them as fatal before any surface is usable.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	// Environment overrides for endpoints and secrets.
	if v := os.Getenv("EVM_WALLET_RPC_URL"); v != "" {
		cfg.EVM.WalletRPCURL = v
	}
	if v := os.Getenv("TRON_FULL_NODE_URL"); v != "" {
		cfg.Tron.FullNodeURL = v
	}
	if v := os.Getenv("TRON_API_KEY"); v != "" {
		cfg.Tron.APIKey = v
	}
	if v := os.Getenv("TRON_WALLET_ADDRESS"); v != "" {
		cfg.Tron.WalletAddress = v
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.EVM.ChainID == 0 {
		cfg.EVM.ChainID = 56 // BNB Smart Chain
		logrus.Infof("EVM chainID not set, defaulting to %d", cfg.EVM.ChainID)
	}
	if cfg.EVM.TokenDecimals == 0 {
		cfg.EVM.TokenDecimals = 18
		logrus.Infof("EVM tokenDecimals not set, defaulting to %d", cfg.EVM.TokenDecimals)
	}
	if cfg.EVM.RPCTimeoutMs == 0 {
		cfg.EVM.RPCTimeoutMs = 10000
	}
	if cfg.Tron.TokenDecimals == 0 {
		cfg.Tron.TokenDecimals = 18
		logrus.Infof("Tron tokenDecimals not set, defaulting to %d", cfg.Tron.TokenDecimals)
	}
	if cfg.Tron.MainNetwork == "" {
		cfg.Tron.MainNetwork = "tron-mainnet"
	}
	if len(cfg.Tron.Networks) == 0 {
		cfg.Tron.Networks = []TronNetworkEntry{
			{Host: "api.trongrid.io", Network: "tron-mainnet"},
			{Host: "api.shasta.trongrid.io", Network: "tron-shasta"},
			{Host: "nile.trongrid.io", Network: "tron-nile"},
		}
		logrus.Info("Tron network classifier table not set, using trongrid defaults")
	}
	if cfg.Tron.FeeLimit == 0 {
		cfg.Tron.FeeLimit = 100_000_000 // 100 TRX
		logrus.Infof("Tron feeLimit not set, defaulting to %d SUN", cfg.Tron.FeeLimit)
	}
	if cfg.Tron.RequestTimeoutMs == 0 {
		cfg.Tron.RequestTimeoutMs = 10000
	}
	if cfg.Tron.LimiterBurst == 0 {
		cfg.Tron.LimiterBurst = 5
	}
	if cfg.Tron.LimiterPeriod == "" {
		cfg.Tron.LimiterPeriod = "200ms"
	}
	if cfg.Cache.BalanceTTLSeconds == 0 {
		cfg.Cache.BalanceTTLSeconds = 15
	}
	if cfg.Cache.CleanupIntervalMinutes == 0 {
		cfg.Cache.CleanupIntervalMinutes = 5
	}
}

func validate(cfg *Config) error {
	if cfg.EVM.WalletRPCURL == "" {
		return fmt.Errorf("evm.walletRpcURL is required (or set EVM_WALLET_RPC_URL)")
	}
	if cfg.EVM.TokenAddress == "" {
		return fmt.Errorf("evm.tokenAddress is required")
	}
	if cfg.Tron.FullNodeURL == "" {
		return fmt.Errorf("tron.fullNodeURL is required (or set TRON_FULL_NODE_URL)")
	}
	if cfg.Tron.TokenAddress == "" {
		return fmt.Errorf("tron.tokenAddress is required")
	}
	for _, chain := range cfg.EVM.Chains {
		if chain.ChainID == 0 || chain.Name == "" || chain.RPCURL == "" {
			return fmt.Errorf("chain registry entry %q is incomplete: chainId, name and rpcUrl are required", chain.Identifier)
		}
	}
	return nil
}
