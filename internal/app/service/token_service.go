package service

import (
	"context"
	"fmt"
	"time"

	"walletbridge/internal/app/port"
	"walletbridge/internal/domain/entity"
	"walletbridge/internal/pkg/amount"
	"walletbridge/internal/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// BalanceUnavailable is the sentinel returned when a balance query fails.
// Balance display is passive; failures never propagate to the caller.
const BalanceUnavailable = "N/A"

// Minimum length of a plausible Tron transaction id.
const minTronTxIDLen = 60

// TokenChainConfig is the per-chain token parameters the service operates with.
type TokenChainConfig struct {
	Accessor   port.ContractAccessor
	Decimals   int
	BurnMethod string
}

// TokenService executes mint, burn and balance operations against the
// preconfigured token contract of each chain.
type TokenService struct {
	chains     map[entity.SupportedChain]TokenChainConfig
	balances   *gocache.Cache
	balanceTTL time.Duration
	logger     *zap.Logger
}

// NewTokenService creates the token operation layer. balanceTTL bounds how
// long a fetched balance may serve display reads before a fresh query.
func NewTokenService(chains map[entity.SupportedChain]TokenChainConfig, balanceTTL, cleanupInterval time.Duration, logger *zap.Logger) *TokenService {
	return &TokenService{
		chains:     chains,
		balances:   gocache.New(balanceTTL, cleanupInterval),
		balanceTTL: balanceTTL,
		logger:     logger.Named("TokenService"),
	}
}

func (s *TokenService) chainConfig(chain entity.SupportedChain) (TokenChainConfig, error) {
	cfg, ok := s.chains[chain]
	if !ok {
		return TokenChainConfig{}, entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("no token configured for chain %s", chain), nil)
	}
	return cfg, nil
}

// Mint issues a mint of the given decimal amount to the recipient and returns
// the transaction identifier.
func (s *TokenService) Mint(ctx context.Context, chain entity.SupportedChain, recipient, value string) (string, error) {
	txID, err := s.submit(ctx, chain, "mint", recipient, value)
	s.count(chain, "mint", err)
	return txID, err
}

// Burn issues a burn of the given decimal amount against the target address
// and returns the transaction identifier. The expected burn method must exist
// on the contract handle; its absence is a configuration error, not a generic
// failure.
func (s *TokenService) Burn(ctx context.Context, chain entity.SupportedChain, target, value string) (string, error) {
	txID, err := s.submit(ctx, chain, "burn", target, value)
	s.count(chain, "burn", err)
	return txID, err
}

func (s *TokenService) submit(ctx context.Context, chain entity.SupportedChain, operation, address, value string) (string, error) {
	cfg, err := s.chainConfig(chain)
	if err != nil {
		return "", err
	}

	// Handle validation first: an absent signer/instance fails fast with a
	// descriptive error before any contract call is attempted.
	handle, err := cfg.Accessor.Acquire(ctx)
	if err != nil {
		return "", err
	}

	method := operation
	if operation == "burn" {
		method = cfg.BurnMethod
	}
	if !handle.HasMethod(method) {
		return "", entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("token contract on %s does not expose %q: wrong contract address or interface", chain, method), nil)
	}

	units, err := amount.ToBaseUnits(value, cfg.Decimals)
	if err != nil {
		return "", entity.NewBridgeError(entity.KindRequest,
			fmt.Sprintf("invalid %s amount", operation), err)
	}

	txID, err := handle.Send(ctx, method, address, units)
	if err != nil {
		return "", err
	}
	if err := s.checkTxID(chain, txID); err != nil {
		return "", err
	}

	s.logger.Info("Token operation submitted",
		zap.String("chain", string(chain)),
		zap.String("operation", operation),
		zap.String("txId", txID))
	return txID, nil
}

// checkTxID sanity-checks the identifier returned by the chain. A failing
// check is an integration error, not a request failure.
func (s *TokenService) checkTxID(chain entity.SupportedChain, txID string) error {
	if txID == "" {
		return entity.NewBridgeError(entity.KindSanity,
			fmt.Sprintf("%s returned an empty transaction id", chain), nil)
	}
	if chain == entity.ChainTron && len(txID) < minTronTxIDLen {
		return entity.NewBridgeError(entity.KindSanity,
			fmt.Sprintf("tron returned a malformed transaction id %q", txID), nil)
	}
	return nil
}

// BalanceOf returns the formatted token balance of the address, or the
// BalanceUnavailable sentinel on any failure. It never returns an error and
// never panics: the result feeds passive display only.
func (s *TokenService) BalanceOf(ctx context.Context, chain entity.SupportedChain, address string) string {
	cacheKey := string(chain) + ":" + address
	if cached, ok := s.balances.Get(cacheKey); ok {
		return cached.(string)
	}

	cfg, err := s.chainConfig(chain)
	if err != nil {
		s.logger.Warn("Balance query on unconfigured chain", zap.String("chain", string(chain)))
		s.count(chain, "balance", err)
		return BalanceUnavailable
	}

	handle, err := cfg.Accessor.Acquire(ctx)
	if err != nil {
		s.logger.Warn("Balance query could not acquire contract handle",
			zap.String("chain", string(chain)), zap.Error(err))
		s.count(chain, "balance", err)
		return BalanceUnavailable
	}

	raw, err := handle.Call(ctx, "balanceOf", address)
	if err != nil {
		s.logger.Warn("Balance query failed",
			zap.String("chain", string(chain)), zap.String("address", address), zap.Error(err))
		s.count(chain, "balance", err)
		return BalanceUnavailable
	}

	formatted := amount.FromBaseUnits(raw, cfg.Decimals)
	s.balances.Set(cacheKey, formatted, s.balanceTTL)
	s.count(chain, "balance", nil)
	return formatted
}

func (s *TokenService) count(chain entity.SupportedChain, operation string, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.TokenOperations.WithLabelValues(string(chain), operation, outcome).Inc()
}
