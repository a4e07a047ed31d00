package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ConnectAttempts counts wallet connect attempts per chain and outcome.
	ConnectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbridge_connect_attempts_total",
			Help: "Wallet connect attempts by chain and outcome.",
		},
		[]string{"chain", "outcome"},
	)

	// TokenOperations counts mint/burn/balance operations per chain and outcome.
	TokenOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbridge_token_operations_total",
			Help: "Token operations by chain, operation and outcome.",
		},
		[]string{"chain", "operation", "outcome"},
	)

	// NetworkSwitches counts network switch requests per outcome.
	NetworkSwitches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletbridge_network_switches_total",
			Help: "EVM network switch requests by outcome.",
		},
		[]string{"outcome"},
	)
)

// MustRegisterMetrics registers all bridge collectors with the default registry.
func MustRegisterMetrics() {
	prometheus.MustRegister(ConnectAttempts, TokenOperations, NetworkSwitches)
}

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
