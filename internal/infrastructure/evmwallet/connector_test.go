package evmwallet

import (
	"context"
	"testing"

	"walletbridge/internal/app/port"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProbeReady(t *testing.T) {
	provider := &fakeProvider{handlers: map[string]func(result interface{}, args []interface{}) error{
		"eth_requestAccounts": accountsHandler("0xAbC0000000000000000000000000000000000001"),
		"eth_chainId":         chainIDHandler("0x38"),
	}}
	c := NewConnector(newTestSessions(provider), zap.NewNop())

	probe := c.Probe(context.Background())
	assert.True(t, probe.Ready())
	assert.Equal(t, "0xAbC0000000000000000000000000000000000001", probe.Account)
	assert.Equal(t, uint64(56), probe.Network.EVMChainID)
}

func TestProbeLockedWallet(t *testing.T) {
	provider := &fakeProvider{handlers: map[string]func(result interface{}, args []interface{}) error{
		"eth_requestAccounts": func(_ interface{}, _ []interface{}) error {
			return &walletError{code: 4001, msg: "User rejected the request"}
		},
	}}
	c := NewConnector(newTestSessions(provider), zap.NewNop())

	probe := c.Probe(context.Background())
	assert.Equal(t, port.StateLocked, probe.State)
}

func TestProbeNoAccounts(t *testing.T) {
	provider := &fakeProvider{handlers: map[string]func(result interface{}, args []interface{}) error{
		"eth_requestAccounts": accountsHandler(),
	}}
	c := NewConnector(newTestSessions(provider), zap.NewNop())

	probe := c.Probe(context.Background())
	assert.Equal(t, port.StateNotYetInjected, probe.State)
}

// A session that grants accounts but cannot answer eth_chainId lacks a
// required capability.
func TestProbeMissingChainIDCapability(t *testing.T) {
	provider := &fakeProvider{handlers: map[string]func(result interface{}, args []interface{}) error{
		"eth_requestAccounts": accountsHandler("0xabc"),
	}}
	c := NewConnector(newTestSessions(provider), zap.NewNop())

	probe := c.Probe(context.Background())
	assert.Equal(t, port.StateMissingCapability, probe.State)
}

func TestProbeMalformedChainID(t *testing.T) {
	provider := &fakeProvider{handlers: map[string]func(result interface{}, args []interface{}) error{
		"eth_requestAccounts": accountsHandler("0xabc"),
		"eth_chainId":         chainIDHandler("not-hex"),
	}}
	c := NewConnector(newTestSessions(provider), zap.NewNop())

	probe := c.Probe(context.Background())
	assert.Equal(t, port.StateMissingCapability, probe.State)
}
