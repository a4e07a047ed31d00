package entity

// SupportedChain identifies one of the two logical chains the bridge can
// operate against. The user selects one before connecting; the wallet reports
// which one it is actually on.
type SupportedChain string

const (
	ChainBSC  SupportedChain = "BSC"
	ChainTron SupportedChain = "TRON"
)

// Valid reports whether c is one of the supported chains.
func (c SupportedChain) Valid() bool {
	return c == ChainBSC || c == ChainTron
}

// NetworkID is the identifier a connected wallet reports for its active
// network: a numeric chain id for EVM wallets, a symbolic id derived from the
// full-node host for Tron wallets (Tron exposes no canonical chain id).
type NetworkID struct {
	// EVMChainID is set when the id came from an EVM wallet (eth_chainId).
	EVMChainID uint64
	// TronNetwork is set when the id came from a Tron session, e.g. "tron-mainnet".
	TronNetwork string
}

// NativeCurrency describes the native coin of an EVM network, as required by
// the wallet_addEthereumChain payload.
type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals int    `json:"decimals" yaml:"decimals"`
}

// ChainDefinition holds everything the bridge knows about an EVM network:
// identity for the resolver and the add-chain parameters the wallet needs when
// it does not know the network yet.
type ChainDefinition struct {
	ChainID          uint64         `json:"chainId" yaml:"chainId"`
	Name             string         `json:"name" yaml:"name"`
	Identifier       string         `json:"identifier" yaml:"identifier"`
	Native           NativeCurrency `json:"nativeCurrency" yaml:"nativeCurrency"`
	RPCURL           string         `json:"rpcUrl" yaml:"rpcUrl"`
	BlockExplorerURL string         `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}
