package tronwallet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"walletbridge/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const apiKeyHeader = "TRON-PRO-API-KEY"

// Client speaks the Tron full-node HTTP API of the wallet session. All
// requests go through one rate limiter so the bridge cannot hammer the node.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a Tron full-node client.
func NewClient(baseURL, apiKey string, timeout time.Duration, limiterPeriod time.Duration, limiterBurst int, logger *zap.Logger) *Client {
	return &Client{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Every(limiterPeriod), limiterBurst),
		logger:  logger.Named("TronClient"),
	}
}

// Host returns the full-node host this client is pointed at, for network
// classification.
func (c *Client) Host() string {
	host := c.baseURL
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}

// post sends a JSON body to the given wallet path and unmarshals the response
// into out. Transport failures come back as wallet-absent errors.
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.NewBridgeError(entity.KindRequest, "rate limiter wait aborted", err)
	}

	requestURL := c.baseURL + path
	var payload []byte
	var err error
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request for %s: %w", path, err)
		}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	if payload != nil {
		req.SetBody(payload)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Warn("Tron full node unreachable", zap.String("url", requestURL), zap.Error(err))
		return entity.NewBridgeError(entity.KindWalletAbsent,
			fmt.Sprintf("tron wallet session unreachable at %s", c.Host()), err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() == fasthttp.StatusNotFound || resp.StatusCode() == fasthttp.StatusMethodNotAllowed {
		return entity.NewBridgeError(entity.KindWalletCapability,
			fmt.Sprintf("tron wallet session does not support %s", path), nil)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Tron API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return entity.NewBridgeError(entity.KindRequest,
			fmt.Sprintf("tron request %s failed with status %d: %s", path, resp.StatusCode(), string(rawBody)), nil)
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		return entity.NewBridgeError(entity.KindRequest,
			fmt.Sprintf("failed to decode tron response from %s", path), err)
	}
	return nil
}

// GetNowBlock fetches the node's current block; used as the readiness check.
func (c *Client) GetNowBlock(ctx context.Context) (*nowBlockRes, error) {
	var res nowBlockRes
	if err := c.post(ctx, "/wallet/getnowblock", nil, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, entity.NormalizeExternal(entity.KindWalletLocked, "tron node not ready", res.Error)
	}
	return &res, nil
}

// GetAccount fetches an account by base58 address.
func (c *Client) GetAccount(ctx context.Context, address string) (*accountRes, error) {
	var res accountRes
	if err := c.post(ctx, "/wallet/getaccount", accountReq{Address: address, Visible: true}, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, entity.NormalizeExternal(entity.KindRequest, "getaccount failed", res.Error)
	}
	return &res, nil
}

// GetContract fetches the deployed contract (including its ABI) by base58 address.
func (c *Client) GetContract(ctx context.Context, address string) (*contractRes, error) {
	var res contractRes
	if err := c.post(ctx, "/wallet/getcontract", contractReq{Value: address, Visible: true}, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, entity.NormalizeExternal(entity.KindRequest, "getcontract failed", res.Error)
	}
	return &res, nil
}

// TriggerConstantContract performs a read-only contract call.
func (c *Client) TriggerConstantContract(ctx context.Context, req triggerConstantReq) (*triggerConstantRes, error) {
	var res triggerConstantRes
	if err := c.post(ctx, "/wallet/triggerconstantcontract", req, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, entity.NormalizeExternal(entity.KindRequest, "constant call failed", res.Error)
	}
	return &res, nil
}

// TriggerSmartContract builds a state-changing contract transaction.
func (c *Client) TriggerSmartContract(ctx context.Context, req triggerSmartReq) (*triggerSmartRes, error) {
	var res triggerSmartRes
	if err := c.post(ctx, "/wallet/triggersmartcontract", req, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, entity.NormalizeExternal(entity.KindRequest, "triggersmartcontract failed", res.Error)
	}
	return &res, nil
}

// BroadcastTransaction hands the wallet-signed transaction to the session for
// broadcast. The session owns signing; the bridge never touches keys.
func (c *Client) BroadcastTransaction(ctx context.Context, tx map[string]interface{}) (*sendTransactionRes, error) {
	var res sendTransactionRes
	if err := c.post(ctx, "/wallet/broadcasttransaction", tx, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, entity.NormalizeExternal(entity.KindRequest, "broadcast failed", res.Error)
	}
	return &res, nil
}
