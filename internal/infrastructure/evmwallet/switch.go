package evmwallet

import (
	"context"
	"fmt"

	"walletbridge/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Wallet error code for "chain not added to the wallet" (EIP-3085 flow).
const errChainNotAdded = 4902

// Switcher asks the EVM wallet to change its active network, registering the
// chain definition first when the wallet does not know it yet. Tron has no
// programmatic switch; the bridge only prompts there.
type Switcher struct {
	sessions *SessionProvider
	registry map[uint64]entity.ChainDefinition
	logger   *zap.Logger
}

// NewSwitcher builds a Switcher over the add-chain registry.
func NewSwitcher(sessions *SessionProvider, chains []entity.ChainDefinition, logger *zap.Logger) *Switcher {
	registry := make(map[uint64]entity.ChainDefinition, len(chains))
	for _, def := range chains {
		registry[def.ChainID] = def
	}
	return &Switcher{
		sessions: sessions,
		registry: registry,
		logger:   logger.Named("NetworkSwitcher"),
	}
}

// Switch issues wallet_switchEthereumChain; on the chain-unknown error code it
// falls back to wallet_addEthereumChain with the registered definition (the
// wallet then retries the switch internally). Any other failure, including
// user rejection, surfaces as-is and is never retried.
func (s *Switcher) Switch(ctx context.Context, chainID uint64) error {
	provider, err := s.sessions.Acquire(ctx)
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.sessions.CallTimeout())
	defer cancel()

	switchParam := map[string]string{"chainId": hexutil.EncodeUint64(chainID)}
	err = provider.Request(callCtx, nil, "wallet_switchEthereumChain", switchParam)
	if err == nil {
		s.logger.Info("Network switch accepted", zap.Uint64("chainId", chainID))
		return nil
	}

	if errorCode(err) != errChainNotAdded {
		return normalizeRPCError(fmt.Sprintf("network switch to chain %d rejected", chainID), err)
	}

	def, ok := s.registry[chainID]
	if !ok {
		return entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("wallet does not know chain %d and no add-chain parameters are registered for it", chainID), nil)
	}

	s.logger.Info("Wallet does not know target chain, registering it",
		zap.Uint64("chainId", chainID), zap.String("name", def.Name))

	addParam := map[string]interface{}{
		"chainId":   hexutil.EncodeUint64(def.ChainID),
		"chainName": def.Name,
		"nativeCurrency": map[string]interface{}{
			"name":     def.Native.Name,
			"symbol":   def.Native.Symbol,
			"decimals": def.Native.Decimals,
		},
		"rpcUrls": []string{def.RPCURL},
	}
	if def.BlockExplorerURL != "" {
		addParam["blockExplorerUrls"] = []string{def.BlockExplorerURL}
	}

	if err := provider.Request(callCtx, nil, "wallet_addEthereumChain", addParam); err != nil {
		return normalizeRPCError(fmt.Sprintf("failed to register chain %d with the wallet", chainID), err)
	}
	s.logger.Info("Chain registered with wallet", zap.Uint64("chainId", chainID))
	return nil
}
