package service

import (
	"context"
	"testing"

	"walletbridge/internal/app/port"
	"walletbridge/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConnector struct {
	chain entity.SupportedChain
	probe port.ProbeResult
}

func (f *fakeConnector) Chain() entity.SupportedChain { return f.chain }

func (f *fakeConnector) Probe(context.Context) port.ProbeResult { return f.probe }

type fakeSwitcher struct {
	calls []uint64
	err   error
}

func (f *fakeSwitcher) Switch(_ context.Context, chainID uint64) error {
	f.calls = append(f.calls, chainID)
	return f.err
}

type recorder struct {
	connected    []entity.ConnectionResult
	disconnected int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnConnected:    func(res entity.ConnectionResult) { r.connected = append(r.connected, res) },
		OnDisconnected: func() { r.disconnected++ },
	}
}

func newConnectionService(connectors map[entity.SupportedChain]port.WalletConnector, switcher port.NetworkSwitcher, rec *recorder) *ConnectionService {
	return NewConnectionService(connectors, newTestResolver(), switcher, rec.callbacks(), zap.NewNop())
}

func TestConnectReadySession(t *testing.T) {
	rec := &recorder{}
	connector := &fakeConnector{
		chain: entity.ChainBSC,
		probe: port.ProbeResult{
			State:   port.StateReady,
			Account: "0xabc",
			Network: entity.NetworkID{EVMChainID: 56},
		},
	}
	svc := newConnectionService(map[entity.SupportedChain]port.WalletConnector{
		entity.ChainBSC: connector,
	}, nil, rec)

	result, err := svc.Connect(context.Background(), entity.ChainBSC)
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "0xabc", result.Address)
	assert.Equal(t, entity.ChainBSC, result.Chain)
	assert.False(t, result.WrongNetwork)

	// The result carries the wallet session handle for in-process callers.
	assert.Same(t, connector, result.Handle)

	require.Len(t, rec.connected, 1)
	assert.Same(t, connector, rec.connected[0].Handle)
}

func TestConnectFlagsWrongNetwork(t *testing.T) {
	rec := &recorder{}
	svc := newConnectionService(map[entity.SupportedChain]port.WalletConnector{
		entity.ChainTron: &fakeConnector{
			chain: entity.ChainTron,
			probe: port.ProbeResult{
				State:   port.StateReady,
				Account: "Tabc",
				Network: entity.NetworkID{TronNetwork: "tron-nile"},
			},
		},
	}, nil, rec)

	result, err := svc.Connect(context.Background(), entity.ChainTron)
	require.NoError(t, err)
	assert.True(t, result.WrongNetwork)
}

func TestConnectNonReadyStatesMapToKinds(t *testing.T) {
	cases := []struct {
		state port.ProbeState
		kind  entity.ErrorKind
	}{
		{port.StateAbsent, entity.KindWalletAbsent},
		{port.StateLocked, entity.KindWalletLocked},
		{port.StateMissingCapability, entity.KindWalletCapability},
		{port.StateNotYetInjected, entity.KindWalletNotInjected},
	}
	for _, tc := range cases {
		t.Run(tc.state.String(), func(t *testing.T) {
			rec := &recorder{}
			svc := newConnectionService(map[entity.SupportedChain]port.WalletConnector{
				entity.ChainBSC: &fakeConnector{
					chain: entity.ChainBSC,
					probe: port.ProbeResult{State: tc.state},
				},
			}, nil, rec)

			_, err := svc.Connect(context.Background(), entity.ChainBSC)
			require.Error(t, err)
			assert.Equal(t, tc.kind, entity.KindOf(err))
			assert.NotEmpty(t, err.Error())
			assert.Empty(t, rec.connected)
		})
	}
}

func TestConnectRejectsUnknownChain(t *testing.T) {
	rec := &recorder{}
	svc := newConnectionService(nil, nil, rec)

	_, err := svc.Connect(context.Background(), entity.SupportedChain("DOGE"))
	require.Error(t, err)
	assert.Equal(t, entity.KindRequest, entity.KindOf(err))
}

// Identical consecutive connection states are delivered to the host only once.
func TestConnectDedupsCallback(t *testing.T) {
	rec := &recorder{}
	svc := newConnectionService(map[entity.SupportedChain]port.WalletConnector{
		entity.ChainBSC: &fakeConnector{
			chain: entity.ChainBSC,
			probe: port.ProbeResult{
				State:   port.StateReady,
				Account: "0xabc",
				Network: entity.NetworkID{EVMChainID: 56},
			},
		},
	}, nil, rec)

	_, err := svc.Connect(context.Background(), entity.ChainBSC)
	require.NoError(t, err)
	_, err = svc.Connect(context.Background(), entity.ChainBSC)
	require.NoError(t, err)
	assert.Len(t, rec.connected, 1)
}

func TestDisconnectFiresOnce(t *testing.T) {
	rec := &recorder{}
	svc := newConnectionService(map[entity.SupportedChain]port.WalletConnector{
		entity.ChainBSC: &fakeConnector{
			chain: entity.ChainBSC,
			probe: port.ProbeResult{State: port.StateReady, Account: "0xabc", Network: entity.NetworkID{EVMChainID: 56}},
		},
	}, nil, rec)

	// Disconnect with nothing connected is a no-op.
	svc.Disconnect()
	assert.Zero(t, rec.disconnected)

	_, err := svc.Connect(context.Background(), entity.ChainBSC)
	require.NoError(t, err)

	svc.Disconnect()
	svc.Disconnect()
	assert.Equal(t, 1, rec.disconnected)
	assert.Nil(t, svc.Current())
}

func TestRequestNetworkSwitchEVM(t *testing.T) {
	rec := &recorder{}
	switcher := &fakeSwitcher{}
	svc := newConnectionService(nil, switcher, rec)

	prompt, err := svc.RequestNetworkSwitch(context.Background(), entity.ChainBSC)
	require.NoError(t, err)
	assert.Empty(t, prompt)
	assert.Equal(t, []uint64{56}, switcher.calls)
}

// Tron has no programmatic switch; the service returns a manual prompt and
// issues no wallet request.
func TestRequestNetworkSwitchTronIsManual(t *testing.T) {
	rec := &recorder{}
	switcher := &fakeSwitcher{}
	svc := newConnectionService(nil, switcher, rec)

	prompt, err := svc.RequestNetworkSwitch(context.Background(), entity.ChainTron)
	require.NoError(t, err)
	assert.Contains(t, prompt, "manually")
	assert.Empty(t, switcher.calls)
}
