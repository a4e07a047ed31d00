package port

import (
	"context"
	"math/big"
)

// TokenContract is an opaque handle bound to the preconfigured token contract
// on one chain. It is never constructed without a valid provider or instance
// behind it.
type TokenContract interface {
	// HasMethod reports whether the bound contract exposes the named method.
	HasMethod(name string) bool

	// Call performs a read-only method invocation returning a uint256.
	Call(ctx context.Context, method string, args ...interface{}) (*big.Int, error)

	// Send submits a state-changing method invocation and returns the
	// transaction identifier.
	Send(ctx context.Context, method string, args ...interface{}) (string, error)
}

// ContractAccessor constructs the token contract handle for one chain.
// EVM construction is synchronous; Tron construction involves an asynchronous
// lookup against the full node, hence the context.
type ContractAccessor interface {
	Acquire(ctx context.Context) (TokenContract, error)
}
