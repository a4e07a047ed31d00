package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"walletbridge/internal/app/port"
	"walletbridge/internal/domain/entity"
	"walletbridge/internal/pkg/metrics"

	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Callbacks is the host page contract. OnConnected and OnDisconnected fire at
// most once per logical state transition, never redundantly for the same state.
type Callbacks struct {
	OnConnected    func(result entity.ConnectionResult)
	OnDisconnected func()
}

// ConnectionService orchestrates wallet connections: it probes the selected
// chain's wallet session, resolves the reported network, computes the
// wrong-network flag and notifies the host.
type ConnectionService struct {
	connectors map[entity.SupportedChain]port.WalletConnector
	resolver   *ChainResolver
	switcher   port.NetworkSwitcher
	callbacks  Callbacks

	mu      sync.Mutex
	current *entity.ConnectionResult

	logger *zap.Logger
}

// NewConnectionService wires the controller. switcher may serve only the EVM
// chain; Tron switching is manual by design.
func NewConnectionService(
	connectors map[entity.SupportedChain]port.WalletConnector,
	resolver *ChainResolver,
	switcher port.NetworkSwitcher,
	callbacks Callbacks,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		connectors: connectors,
		resolver:   resolver,
		switcher:   switcher,
		callbacks:  callbacks,
		logger:     logger.Named("ConnectionService"),
	}
}

// Connect probes the wallet of the selected chain and, when the session is
// usable, produces a fresh ConnectionResult. Non-ready probe states map onto
// the error taxonomy with actionable guidance as the message.
func (s *ConnectionService) Connect(ctx context.Context, selected entity.SupportedChain) (*entity.ConnectionResult, error) {
	if !selected.Valid() {
		return nil, entity.NewBridgeError(entity.KindRequest,
			fmt.Sprintf("unsupported chain selection %q", selected), nil)
	}
	connector, ok := s.connectors[selected]
	if !ok {
		return nil, entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("no wallet connector configured for chain %s", selected), nil)
	}

	probe := connector.Probe(ctx)
	if !probe.Ready() {
		metrics.ConnectAttempts.WithLabelValues(string(selected), metrics.OutcomeError).Inc()
		return nil, entity.NewBridgeError(stateKind(probe.State), probe.State.Guidance(selected), nil)
	}

	chain, wrongNetwork := s.resolver.Resolve(probe.Network, selected)
	result := entity.ConnectionResult{
		SessionID:    uuid.NewV4().String(),
		Address:      probe.Account,
		Chain:        chain,
		WrongNetwork: wrongNetwork,
		Handle:       connector,
	}

	s.deliver(result)
	metrics.ConnectAttempts.WithLabelValues(string(selected), metrics.OutcomeOK).Inc()
	s.logger.Info("Wallet connected",
		zap.String("sessionId", result.SessionID),
		zap.String("address", result.Address),
		zap.String("chain", string(result.Chain)),
		zap.Bool("wrongNetwork", result.WrongNetwork))
	return &result, nil
}

// deliver invokes OnConnected unless the new result describes the same
// logical state as the one already delivered.
func (s *ConnectionService) deliver(result entity.ConnectionResult) {
	s.mu.Lock()
	same := s.current != nil &&
		s.current.Address == result.Address &&
		s.current.Chain == result.Chain &&
		s.current.WrongNetwork == result.WrongNetwork
	s.current = &result
	s.mu.Unlock()

	if same {
		s.logger.Debug("Connection state unchanged, skipping callback")
		return
	}
	if s.callbacks.OnConnected != nil {
		s.callbacks.OnConnected(result)
	}
}

// Disconnect clears the connection state and notifies the host once.
func (s *ConnectionService) Disconnect() {
	s.mu.Lock()
	wasConnected := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if !wasConnected {
		return
	}
	if s.callbacks.OnDisconnected != nil {
		s.callbacks.OnDisconnected()
	}
	s.logger.Info("Wallet disconnected")
}

// Current returns the last delivered connection state, or nil.
func (s *ConnectionService) Current() *entity.ConnectionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// RequestNetworkSwitch asks the EVM wallet to activate the configured chain.
// For Tron there is no programmatic switch: the returned prompt must be shown
// to the user and no wallet request is issued.
func (s *ConnectionService) RequestNetworkSwitch(ctx context.Context, target entity.SupportedChain) (string, error) {
	switch target {
	case entity.ChainBSC:
		if s.switcher == nil {
			return "", entity.NewBridgeError(entity.KindConfig, "no network switcher configured", nil)
		}
		err := s.switcher.Switch(ctx, s.resolver.EVMChainID())
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeError
		}
		metrics.NetworkSwitches.WithLabelValues(outcome).Inc()
		return "", err
	case entity.ChainTron:
		return "Automatic network switching is not supported for TRON. Please switch to the Tron network manually in your wallet.", nil
	default:
		return "", entity.NewBridgeError(entity.KindRequest,
			fmt.Sprintf("unsupported chain selection %q", target), nil)
	}
}

// HealthProbe probes both wallet sessions concurrently and logs their states.
// Used at startup; failures are informational, never fatal.
func (s *ConnectionService) HealthProbe(ctx context.Context, timeout time.Duration) {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(probeCtx)
	for chain, connector := range s.connectors {
		g.Go(func() error {
			probe := connector.Probe(gctx)
			s.logger.Info("Wallet session state",
				zap.String("chain", string(chain)),
				zap.String("state", probe.State.String()))
			return nil
		})
	}
	_ = g.Wait()
}

func stateKind(state port.ProbeState) entity.ErrorKind {
	switch state {
	case port.StateAbsent:
		return entity.KindWalletAbsent
	case port.StateLocked:
		return entity.KindWalletLocked
	case port.StateMissingCapability:
		return entity.KindWalletCapability
	case port.StateNotYetInjected:
		return entity.KindWalletNotInjected
	default:
		return entity.KindRequest
	}
}
