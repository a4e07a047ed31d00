package port

import (
	"context"

	"walletbridge/internal/domain/entity"
)

// ProbeState is the tagged result of a wallet capability probe. The states
// are progressively more specific: callers switch on the tag to render
// distinct user guidance instead of chaining nil checks.
type ProbeState int

const (
	// StateAbsent means no wallet session could be reached at all.
	StateAbsent ProbeState = iota
	// StateLocked means the session exists but is not ready (locked wallet).
	StateLocked
	// StateMissingCapability means the session lacks a required method.
	StateMissingCapability
	// StateNotYetInjected means the session has no account instance yet.
	StateNotYetInjected
	// StateReady means the session is fully usable.
	StateReady
)

func (s ProbeState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateLocked:
		return "locked"
	case StateMissingCapability:
		return "missing_capability"
	case StateNotYetInjected:
		return "not_yet_injected"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Guidance returns the actionable prompt the host page should show for a
// non-ready state.
func (s ProbeState) Guidance(chain entity.SupportedChain) string {
	wallet := "MetaMask"
	if chain == entity.ChainTron {
		wallet = "TronLink"
	}
	switch s {
	case StateAbsent:
		return "Please install " + wallet + " to continue"
	case StateLocked:
		return "Please unlock " + wallet + " and try again"
	case StateMissingCapability:
		return wallet + " is outdated and does not support the required requests; please update it"
	case StateNotYetInjected:
		return wallet + " is still initializing; please retry in a moment"
	default:
		return ""
	}
}

// ProbeResult carries the probe outcome. Account and Network are only
// meaningful when State is StateReady.
type ProbeResult struct {
	State   ProbeState
	Account string
	Network entity.NetworkID
}

// Ready is a convenience for State == StateReady.
func (r ProbeResult) Ready() bool {
	return r.State == StateReady
}

// WalletConnector acquires a chain-specific wallet session. Implementations
// never propagate raw SDK errors from the probe: any failing check yields an
// absent (non-ready) result with its own diagnostic state.
type WalletConnector interface {
	// Chain returns which logical chain this connector serves.
	Chain() entity.SupportedChain

	// Probe validates the wallet session and, when it is fully usable,
	// returns the connected account and the wallet-reported network id.
	Probe(ctx context.Context) ProbeResult
}

// NetworkSwitcher requests the wallet switch its active network. EVM only;
// the Tron session offers no programmatic switch.
type NetworkSwitcher interface {
	// Switch asks the wallet to activate the given chain id, registering the
	// chain definition first when the wallet does not know it.
	Switch(ctx context.Context, chainID uint64) error
}
