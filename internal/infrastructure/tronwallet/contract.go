package tronwallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"walletbridge/internal/app/port"
	"walletbridge/internal/domain/entity"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Function selectors of the fixed token interface.
var selectors = map[string]string{
	"balanceOf": "balanceOf(address)",
	"mint":      "mint(address,uint256)",
	"burn":      "burn(address,uint256)",
}

const handleCacheKey = "token-contract"

// TronToken is the Tron token contract handle: the fixed contract address,
// the method set reported by the deployed contract and the session client.
type TronToken struct {
	client        *Client
	tokenAddress  string
	walletAddress string
	feeLimit      int64
	methods       map[string]bool
	logger        *zap.Logger
}

// HasMethod reports whether the deployed contract exposes the named method.
func (t *TronToken) HasMethod(name string) bool {
	return t.methods[name]
}

// Call performs a read-only triggerconstantcontract invocation and decodes
// the single uint256 result.
func (t *TronToken) Call(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	selector, ok := selectors[method]
	if !ok {
		return nil, entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("no selector registered for method %q", method), nil)
	}
	parameter, err := encodeParams(args)
	if err != nil {
		return nil, err
	}

	owner := t.walletAddress
	if owner == "" && len(args) > 0 {
		// balanceOf can be probed on behalf of the queried account itself.
		if s, isStr := args[0].(string); isStr {
			owner = s
		}
	}

	res, err := t.client.TriggerConstantContract(ctx, triggerConstantReq{
		OwnerAddress:     owner,
		ContractAddress:  t.tokenAddress,
		FunctionSelector: selector,
		Parameter:        parameter,
		Visible:          true,
	})
	if err != nil {
		return nil, err
	}
	if !res.Result.Result && res.Result.Message != "" {
		return nil, entity.NewBridgeError(entity.KindRequest,
			fmt.Sprintf("%s call failed: %s", method, decodeNodeMessage(res.Result.Message)), nil)
	}
	if len(res.ConstantResult) == 0 {
		return nil, entity.NewBridgeError(entity.KindSanity,
			fmt.Sprintf("%s call returned no result", method), nil)
	}

	value, ok := new(big.Int).SetString(strings.TrimPrefix(res.ConstantResult[0], "0x"), 16)
	if !ok {
		return nil, entity.NewBridgeError(entity.KindSanity,
			fmt.Sprintf("%s result is not a hex integer: %s", method, res.ConstantResult[0]), nil)
	}
	return value, nil
}

// Send builds the contract transaction with fixed parameters (configured fee
// limit, zero call value) and hands it to the session for signing and
// broadcast. No confirmation polling happens here.
func (t *TronToken) Send(ctx context.Context, method string, args ...interface{}) (string, error) {
	selector, ok := selectors[method]
	if !ok {
		return "", entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("no selector registered for method %q", method), nil)
	}
	parameter, err := encodeParams(args)
	if err != nil {
		return "", err
	}

	res, err := t.client.TriggerSmartContract(ctx, triggerSmartReq{
		OwnerAddress:     t.walletAddress,
		ContractAddress:  t.tokenAddress,
		FunctionSelector: selector,
		Parameter:        parameter,
		FeeLimit:         t.feeLimit,
		CallValue:        0,
		Visible:          true,
	})
	if err != nil {
		return "", err
	}
	if !res.Result.Result {
		msg := res.Result.Message
		if msg == "" {
			msg = res.Result.Code
		}
		return "", entity.NewBridgeError(entity.KindRequest,
			fmt.Sprintf("%s transaction build rejected: %s", method, decodeNodeMessage(msg)), nil)
	}
	if res.Transaction == nil {
		return "", entity.NewBridgeError(entity.KindSanity,
			fmt.Sprintf("%s produced no transaction to broadcast", method), nil)
	}

	sent, err := t.client.BroadcastTransaction(ctx, res.Transaction)
	if err != nil {
		return "", err
	}
	if !sent.Result {
		msg := sent.Message
		if msg == "" {
			msg = sent.Code
		}
		return "", entity.NewBridgeError(entity.KindRequest,
			fmt.Sprintf("%s broadcast rejected: %s", method, decodeNodeMessage(msg)), nil)
	}

	t.logger.Info("Transaction broadcast", zap.String("method", method), zap.String("txid", sent.TxID))
	return sent.TxID, nil
}

// ContractAccessor implements port.ContractAccessor for the Tron chain.
// Construction is asynchronous (getcontract lookup) and the resulting handle
// is cached, so the lookup does not repeat on every operation.
type ContractAccessor struct {
	client          *Client
	tokenAddress    string
	tokenAddressHex string
	walletAddress   string
	feeLimit        int64
	handles         *gocache.Cache
	logger          *zap.Logger
}

// NewContractAccessor converts the configured base58 token address once, up
// front; a malformed address is a fatal configuration error.
func NewContractAccessor(client *Client, tokenAddress, walletAddress string, feeLimit int64, logger *zap.Logger) (*ContractAccessor, error) {
	hexAddr, err := AddressToHex(tokenAddress)
	if err != nil {
		return nil, entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("malformed tron token address %q", tokenAddress), err)
	}
	return &ContractAccessor{
		client:          client,
		tokenAddress:    tokenAddress,
		tokenAddressHex: hexAddr,
		walletAddress:   walletAddress,
		feeLimit:        feeLimit,
		handles:         gocache.New(10*time.Minute, 30*time.Minute),
		logger:          logger.Named("TronContract"),
	}, nil
}

// Acquire looks the deployed contract up on the session's node and verifies it
// actually exposes callable methods; an empty ABI means a bad address or ABI
// and is raised as a descriptive configuration error.
func (a *ContractAccessor) Acquire(ctx context.Context) (port.TokenContract, error) {
	if a.walletAddress == "" {
		return nil, entity.NewBridgeError(entity.KindWalletNotInjected,
			"no tron account instance resolved: connect the tron wallet before token operations", nil)
	}

	if cached, ok := a.handles.Get(handleCacheKey); ok {
		return cached.(*TronToken), nil
	}

	deployed, err := a.client.GetContract(ctx, a.tokenAddress)
	if err != nil {
		return nil, err
	}

	methods := make(map[string]bool)
	for _, entry := range deployed.ABI.Entrys {
		if strings.EqualFold(entry.Type, "function") && entry.Name != "" {
			methods[entry.Name] = true
		}
	}
	if len(methods) == 0 {
		return nil, entity.NewBridgeError(entity.KindConfig,
			fmt.Sprintf("contract at %s (%s) exposes no callable methods: wrong address or ABI", a.tokenAddress, a.tokenAddressHex), nil)
	}

	handle := &TronToken{
		client:        a.client,
		tokenAddress:  a.tokenAddress,
		walletAddress: a.walletAddress,
		feeLimit:      a.feeLimit,
		methods:       methods,
		logger:        a.logger,
	}
	a.handles.Set(handleCacheKey, handle, gocache.DefaultExpiration)
	return handle, nil
}

// encodeParams ABI-encodes the argument list for a function selector:
// base58 addresses and 0x hex addresses left-pad to 32 bytes, big integers
// encode as 32-byte big-endian words.
func encodeParams(args []interface{}) (string, error) {
	var sb strings.Builder
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			hexAddr := v
			if strings.HasPrefix(v, "T") {
				converted, err := AddressToHex(v)
				if err != nil {
					return "", entity.NewBridgeError(entity.KindRequest,
						fmt.Sprintf("invalid tron address argument %q", v), err)
				}
				hexAddr = converted
			}
			hexAddr = strings.TrimPrefix(strings.ToLower(hexAddr), "0x")
			if len(hexAddr) != 40 {
				return "", entity.NewBridgeError(entity.KindRequest,
					fmt.Sprintf("invalid address argument %q", v), nil)
			}
			sb.WriteString(strings.Repeat("0", 64-len(hexAddr)))
			sb.WriteString(hexAddr)
		case *big.Int:
			if v.Sign() < 0 {
				return "", entity.NewBridgeError(entity.KindRequest,
					fmt.Sprintf("negative amount %s cannot be encoded", v.String()), nil)
			}
			word := v.Text(16)
			if len(word) > 64 {
				return "", entity.NewBridgeError(entity.KindRequest,
					fmt.Sprintf("amount %s overflows uint256", v.String()), nil)
			}
			sb.WriteString(strings.Repeat("0", 64-len(word)))
			sb.WriteString(word)
		default:
			return "", entity.NewBridgeError(entity.KindRequest,
				fmt.Sprintf("unsupported argument type %T", arg), nil)
		}
	}
	return sb.String(), nil
}

// decodeNodeMessage turns the node's hex-encoded failure messages back into
// text; non-hex messages pass through untouched.
func decodeNodeMessage(msg string) string {
	decoded, err := hex.DecodeString(strings.TrimPrefix(msg, "0x"))
	if err != nil {
		return msg
	}
	for _, r := range string(decoded) {
		if !unicode.IsPrint(r) {
			return msg
		}
	}
	return string(decoded)
}
