package evmwallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"walletbridge/internal/app/port"
	"walletbridge/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// Token ABI: the fixed interface of the preconfigured token contract.
const tokenABI = `[{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"mint","outputs":[],"payable":false,"stateMutability":"nonpayable","type":"function"},{"constant":false,"inputs":[{"name":"account","type":"address"},{"name":"amount","type":"uint256"}],"name":"burnFrom","outputs":[],"payable":false,"stateMutability":"nonpayable","type":"function"}]`

var (
	parsedTokenABI  abi.ABI
	parsedTokenOnce sync.Once
)

func initParsedTokenABI() {
	parsedTokenOnce.Do(func() {
		var err error
		parsedTokenABI, err = abi.JSON(strings.NewReader(tokenABI))
		if err != nil {
			// Critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse token ABI: %v", err))
		}
	})
}

// BoundToken is the EVM token contract handle: the fixed contract address,
// the fixed ABI and the wallet provider plus signing account behind it.
type BoundToken struct {
	address  common.Address
	from     common.Address
	provider Provider
	logger   *zap.Logger
}

// HasMethod reports whether the bound interface exposes the named method.
func (t *BoundToken) HasMethod(name string) bool {
	_, ok := parsedTokenABI.Methods[name]
	return ok
}

// Call performs a read-only eth_call of the named method and decodes the
// single uint256 output.
func (t *BoundToken) Call(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	data, err := parsedTokenABI.Pack(method, convertArgs(args)...)
	if err != nil {
		return nil, entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("failed to encode %s call", method), err)
	}

	callArgs := map[string]interface{}{
		"to":   t.address,
		"data": hexutil.Bytes(data),
	}
	var out hexutil.Bytes
	if err := t.provider.Request(ctx, &out, "eth_call", callArgs, "latest"); err != nil {
		return nil, normalizeRPCError(fmt.Sprintf("%s call failed", method), err)
	}
	if len(out) == 0 {
		return big.NewInt(0), nil
	}

	unpacked, err := parsedTokenABI.Unpack(method, out)
	if err != nil {
		return nil, entity.NewBridgeError(entity.KindSanity,
			fmt.Sprintf("failed to decode %s result: %s", method, hexutil.Encode(out)), err)
	}
	if len(unpacked) == 0 {
		return nil, entity.NewBridgeError(entity.KindSanity,
			fmt.Sprintf("%s returned no data", method), nil)
	}
	value, ok := unpacked[0].(*big.Int)
	if !ok {
		return nil, entity.NewBridgeError(entity.KindSanity,
			fmt.Sprintf("%s result is not uint256, got %T", method, unpacked[0]), nil)
	}
	return value, nil
}

// Send submits the named method through the wallet (eth_sendTransaction with
// the connected account as sender) and returns the transaction hash.
func (t *BoundToken) Send(ctx context.Context, method string, args ...interface{}) (string, error) {
	data, err := parsedTokenABI.Pack(method, convertArgs(args)...)
	if err != nil {
		return "", entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("failed to encode %s transaction", method), err)
	}

	tx := map[string]interface{}{
		"from": t.from,
		"to":   t.address,
		"data": hexutil.Bytes(data),
	}
	var txHash string
	if err := t.provider.Request(ctx, &txHash, "eth_sendTransaction", tx); err != nil {
		return "", normalizeRPCError(fmt.Sprintf("%s transaction rejected", method), err)
	}
	t.logger.Info("Transaction submitted", zap.String("method", method), zap.String("txHash", txHash))
	return txHash, nil
}

// convertArgs maps chain-agnostic argument values to ABI-typed ones: address
// strings become common.Address, big integers pass through.
func convertArgs(args []interface{}) []interface{} {
	converted := make([]interface{}, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			converted[i] = common.HexToAddress(s)
			continue
		}
		converted[i] = arg
	}
	return converted
}

// ContractAccessor implements port.ContractAccessor for the EVM chain.
// Construction of the handle itself is synchronous; only signer resolution
// touches the wallet.
type ContractAccessor struct {
	sessions *SessionProvider
	address  common.Address
	logger   *zap.Logger
}

// NewContractAccessor creates the EVM accessor for the configured token address.
func NewContractAccessor(sessions *SessionProvider, tokenAddress string, logger *zap.Logger) (*ContractAccessor, error) {
	initParsedTokenABI()
	if !common.IsHexAddress(tokenAddress) {
		return nil, entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("malformed EVM token address %q", tokenAddress), nil)
	}
	return &ContractAccessor{
		sessions: sessions,
		address:  common.HexToAddress(tokenAddress),
		logger:   logger.Named("EVMContract"),
	}, nil
}

// Acquire resolves the signing account and binds the token handle to it.
// An absent signer fails fast with a descriptive error before any contract
// call can be attempted.
func (a *ContractAccessor) Acquire(ctx context.Context) (port.TokenContract, error) {
	provider, err := a.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, a.sessions.CallTimeout())
	defer cancel()

	var accounts []string
	if err := provider.Request(callCtx, &accounts, "eth_accounts"); err != nil {
		return nil, normalizeRPCError("failed to resolve signer accounts", err)
	}
	if len(accounts) == 0 {
		return nil, entity.NewBridgeError(entity.KindWalletNotInjected,
			"no signer available: connect the EVM wallet before token operations", nil)
	}

	return &BoundToken{
		address:  a.address,
		from:     common.HexToAddress(accounts[0]),
		provider: provider,
		logger:   a.logger,
	}, nil
}
