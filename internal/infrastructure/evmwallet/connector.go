package evmwallet

import (
	"context"

	"walletbridge/internal/app/port"
	"walletbridge/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Connector implements port.WalletConnector for the EVM wallet session.
type Connector struct {
	sessions *SessionProvider
	logger   *zap.Logger
}

// NewConnector creates an EVM wallet connector.
func NewConnector(sessions *SessionProvider, logger *zap.Logger) *Connector {
	return &Connector{
		sessions: sessions,
		logger:   logger.Named("EVMConnector"),
	}
}

// Chain returns the logical chain this connector serves.
func (c *Connector) Chain() entity.SupportedChain {
	return entity.ChainBSC
}

// Probe validates the wallet session. Signer acquisition (eth_requestAccounts)
// may fail on user rejection or a locked wallet; every failure maps to a
// non-ready state instead of an error.
func (c *Connector) Probe(ctx context.Context) port.ProbeResult {
	provider, err := c.sessions.Acquire(ctx)
	if err != nil {
		c.logger.Warn("EVM wallet session absent", zap.Error(err))
		return port.ProbeResult{State: port.StateAbsent}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.sessions.CallTimeout())
	defer cancel()

	var accounts []string
	if err := provider.Request(callCtx, &accounts, "eth_requestAccounts"); err != nil {
		c.logger.Warn("EVM signer acquisition failed", zap.Error(err))
		return port.ProbeResult{State: port.StateLocked}
	}
	if len(accounts) == 0 {
		c.logger.Warn("EVM wallet returned no accounts")
		return port.ProbeResult{State: port.StateNotYetInjected}
	}

	var chainIDHex string
	if err := provider.Request(callCtx, &chainIDHex, "eth_chainId"); err != nil {
		c.logger.Warn("EVM wallet does not answer eth_chainId", zap.Error(err))
		return port.ProbeResult{State: port.StateMissingCapability}
	}
	chainID, err := hexutil.DecodeUint64(chainIDHex)
	if err != nil {
		c.logger.Warn("EVM wallet reported malformed chain id", zap.String("chainId", chainIDHex), zap.Error(err))
		return port.ProbeResult{State: port.StateMissingCapability}
	}

	return port.ProbeResult{
		State:   port.StateReady,
		Account: accounts[0],
		Network: entity.NetworkID{EVMChainID: chainID},
	}
}
