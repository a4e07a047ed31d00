package tronwallet

import (
	"context"

	"walletbridge/internal/app/port"
	"walletbridge/internal/domain/entity"

	"go.uber.org/zap"
)

// HostClassifier maps a full-node host to a symbolic Tron network id. It is
// injected so new endpoints can be added through configuration instead of
// code changes.
type HostClassifier func(host string) (network string, ok bool)

// Connector implements port.WalletConnector for the Tron wallet session.
type Connector struct {
	client        *Client
	walletAddress string
	classify      HostClassifier
	logger        *zap.Logger
}

// NewConnector creates a Tron wallet connector. walletAddress is the base58
// account of the session; empty means the session has no account instance yet.
func NewConnector(client *Client, walletAddress string, classify HostClassifier, logger *zap.Logger) *Connector {
	return &Connector{
		client:        client,
		walletAddress: walletAddress,
		classify:      classify,
		logger:        logger.Named("TronConnector"),
	}
}

// Chain returns the logical chain this connector serves.
func (c *Connector) Chain() entity.SupportedChain {
	return entity.ChainTron
}

// Probe validates the session in order: reachable, ready, request capability,
// account instance present. Each failing check yields its own state and a
// distinct diagnostic log, so callers can render distinct user guidance.
func (c *Connector) Probe(ctx context.Context) port.ProbeResult {
	if c.client == nil {
		c.logger.Warn("No tron wallet session configured")
		return port.ProbeResult{State: port.StateAbsent}
	}

	block, err := c.client.GetNowBlock(ctx)
	if err != nil {
		switch entity.KindOf(err) {
		case entity.KindWalletAbsent:
			c.logger.Warn("Tron wallet session unreachable", zap.Error(err))
			return port.ProbeResult{State: port.StateAbsent}
		case entity.KindWalletCapability:
			c.logger.Warn("Tron wallet session lacks node access", zap.Error(err))
			return port.ProbeResult{State: port.StateMissingCapability}
		default:
			c.logger.Warn("Tron wallet session not ready", zap.Error(err))
			return port.ProbeResult{State: port.StateLocked}
		}
	}
	if block.BlockHeader.RawData.Number == 0 {
		c.logger.Warn("Tron wallet session reports no current block, treating as locked")
		return port.ProbeResult{State: port.StateLocked}
	}

	if c.walletAddress == "" {
		c.logger.Warn("Tron wallet session has no account instance yet")
		return port.ProbeResult{State: port.StateNotYetInjected}
	}

	account, err := c.client.GetAccount(ctx, c.walletAddress)
	if err != nil {
		if entity.KindOf(err) == entity.KindWalletCapability {
			c.logger.Warn("Tron wallet session missing account capability", zap.Error(err))
			return port.ProbeResult{State: port.StateMissingCapability}
		}
		c.logger.Warn("Tron account not resolvable yet", zap.Error(err))
		return port.ProbeResult{State: port.StateNotYetInjected}
	}
	if account.Address == "" {
		c.logger.Warn("Tron account instance not injected", zap.String("address", c.walletAddress))
		return port.ProbeResult{State: port.StateNotYetInjected}
	}

	network, ok := c.classify(c.client.Host())
	if !ok {
		// Leave the network id empty; the resolver logs and falls back.
		network = ""
	}

	return port.ProbeResult{
		State:   port.StateReady,
		Account: c.walletAddress,
		Network: entity.NetworkID{TronNetwork: network},
	}
}
