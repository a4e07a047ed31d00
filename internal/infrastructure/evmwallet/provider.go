package evmwallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"walletbridge/internal/domain/entity"

	"github.com/ethereum/go-ethereum/rpc"
)

const defaultConnectionTimeout = 10 * time.Second

// Provider is the EIP-1193-style request surface of the EVM wallet session.
// Every wallet interaction goes through Request; result may be nil when the
// response payload is irrelevant.
type Provider interface {
	Request(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// rpcProvider adapts go-ethereum's rpc.Client to the Provider surface.
type rpcProvider struct {
	client *rpc.Client
}

func (p *rpcProvider) Request(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return p.client.CallContext(ctx, result, method, args...)
}

// SessionProvider lazily dials the wallet session endpoint and caches the
// resulting provider so repeated operations reuse one connection.
type SessionProvider struct {
	mu                sync.Mutex
	provider          Provider
	walletURL         string
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
	loggerInfo        func(msg string, args ...any)
	loggerError       func(msg string, args ...any)
}

// NewSessionProvider creates a SessionProvider for the given wallet endpoint.
func NewSessionProvider(
	walletURL string,
	rpcCallTimeout time.Duration,
	loggerInfo func(msg string, args ...any),
	loggerError func(msg string, args ...any),
) *SessionProvider {
	return &SessionProvider{
		walletURL:         walletURL,
		connectionTimeout: defaultConnectionTimeout,
		rpcCallTimeout:    rpcCallTimeout,
		loggerInfo:        loggerInfo,
		loggerError:       loggerError,
	}
}

// Acquire returns the cached provider, dialing the wallet endpoint on first
// use. A failed dial yields a wallet-absent error, never a raw transport one.
func (p *SessionProvider) Acquire(ctx context.Context) (Provider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.provider != nil {
		return p.provider, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.connectionTimeout)
	defer cancel()

	client, err := rpc.DialContext(dialCtx, p.walletURL)
	if err != nil {
		p.loggerError("Failed to reach EVM wallet session", "url", p.walletURL, "error", err)
		return nil, entity.NewBridgeError(entity.KindWalletAbsent,
			fmt.Sprintf("no EVM wallet session reachable at %s", p.walletURL), err)
	}

	p.loggerInfo("EVM wallet session established", "url", p.walletURL)
	p.provider = &rpcProvider{client: client}
	return p.provider, nil
}

// CallTimeout returns the configured per-request timeout.
func (p *SessionProvider) CallTimeout() time.Duration {
	return p.rpcCallTimeout
}

// normalizeRPCError converts a wallet request failure into the bridge's error
// type, preferring the wallet's short-form message and code when available.
func normalizeRPCError(context string, err error) *entity.BridgeError {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return entity.NewBridgeError(entity.KindRequest,
			fmt.Sprintf("%s: %s (code %d)", context, rpcErr.Error(), rpcErr.ErrorCode()), nil)
	}
	return entity.NewBridgeError(entity.KindRequest, context, err)
}

// errorCode extracts the wallet error code, or 0 when none is carried.
func errorCode(err error) int {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode()
	}
	return 0
}
