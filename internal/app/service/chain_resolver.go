package service

import (
	"walletbridge/internal/domain/entity"

	"go.uber.org/zap"
)

// ChainResolver classifies the network id a connected wallet reports and
// compares it to the chain the user selected. The selection is only ever used
// for the mismatch flag, never for classification.
type ChainResolver struct {
	evmChainID  uint64
	tronNetwork string
	logger      *zap.Logger
}

// NewChainResolver creates a resolver for the configured chain identities.
func NewChainResolver(evmChainID uint64, tronNetwork string, logger *zap.Logger) *ChainResolver {
	return &ChainResolver{
		evmChainID:  evmChainID,
		tronNetwork: tronNetwork,
		logger:      logger.Named("ChainResolver"),
	}
}

// EVMChainID returns the chain id the resolver treats as BSC.
func (r *ChainResolver) EVMChainID() uint64 {
	return r.evmChainID
}

// Resolve maps the wallet-reported network id to a supported chain and
// computes the wrong-network flag. Unrecognized ids fall back to the selected
// chain with wrongNetwork true and a logged warning; Resolve never fails.
func (r *ChainResolver) Resolve(id entity.NetworkID, selected entity.SupportedChain) (entity.SupportedChain, bool) {
	if id.EVMChainID != 0 && id.EVMChainID == r.evmChainID {
		return entity.ChainBSC, selected != entity.ChainBSC
	}
	if id.TronNetwork != "" && id.TronNetwork == r.tronNetwork {
		return entity.ChainTron, selected != entity.ChainTron
	}

	r.logger.Warn("Unrecognized wallet network, falling back to selection",
		zap.Uint64("evmChainId", id.EVMChainID),
		zap.String("tronNetwork", id.TronNetwork),
		zap.String("selected", string(selected)))
	return selected, true
}
