package tronwallet

import (
	"context"
	"encoding/hex"
	"math/big"
	"net/http"
	"testing"

	"walletbridge/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const tokenABIBody = `{"name":"Token","contract_address":"` + testWalletAddress + `","abi":{"entrys":[` +
	`{"name":"balanceOf","type":"Function"},` +
	`{"name":"mint","type":"Function"},` +
	`{"name":"burn","type":"Function"}]}}`

func newTestAccessor(t *testing.T, client *Client) *ContractAccessor {
	t.Helper()
	accessor, err := NewContractAccessor(client, "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", testWalletAddress, 100_000_000, zap.NewNop())
	require.NoError(t, err)
	return accessor
}

func TestAcquireBuildsHandleFromDeployedABI(t *testing.T) {
	client, stop := newNodeClient(t, nodeHandler(map[string]string{
		"/wallet/getcontract": tokenABIBody,
	}))
	defer stop()

	accessor := newTestAccessor(t, client)
	handle, err := accessor.Acquire(context.Background())
	require.NoError(t, err)

	assert.True(t, handle.HasMethod("balanceOf"))
	assert.True(t, handle.HasMethod("mint"))
	assert.True(t, handle.HasMethod("burn"))
	assert.False(t, handle.HasMethod("burnFrom"))

	// The handle is cached; a second acquire does not hit the node again.
	again, err := accessor.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, handle, again)
}

func TestAcquireEmptyABIIsConfigError(t *testing.T) {
	client, stop := newNodeClient(t, nodeHandler(map[string]string{
		"/wallet/getcontract": `{"abi":{"entrys":[]}}`,
	}))
	defer stop()

	accessor := newTestAccessor(t, client)
	_, err := accessor.Acquire(context.Background())
	require.Error(t, err)
	assert.Equal(t, entity.KindConfig, entity.KindOf(err))
	assert.Contains(t, err.Error(), "no callable methods")
}

func TestTokenCallDecodesConstantResult(t *testing.T) {
	client, stop := newNodeClient(t, nodeHandler(map[string]string{
		"/wallet/getcontract":             tokenABIBody,
		"/wallet/triggerconstantcontract": `{"result":{"result":true},"constant_result":["00000000000000000000000000000000000000000000000000000000000f4240"]}`,
	}))
	defer stop()

	accessor := newTestAccessor(t, client)
	handle, err := accessor.Acquire(context.Background())
	require.NoError(t, err)

	got, err := handle.Call(context.Background(), "balanceOf", testWalletAddress)
	require.NoError(t, err)
	assert.Zero(t, big.NewInt(1_000_000).Cmp(got))
}

func TestTokenSendBroadcastsAndReturnsTxID(t *testing.T) {
	txID := "7c2d4206c03a883dd9066d620335dc1be272a8dc733cfa3f6d10308faa37facc"
	client, stop := newNodeClient(t, nodeHandler(map[string]string{
		"/wallet/getcontract":          tokenABIBody,
		"/wallet/triggersmartcontract": `{"result":{"result":true},"transaction":{"txID":"` + txID + `","raw_data":{}}}`,
		"/wallet/broadcasttransaction": `{"result":true,"txid":"` + txID + `"}`,
	}))
	defer stop()

	accessor := newTestAccessor(t, client)
	handle, err := accessor.Acquire(context.Background())
	require.NoError(t, err)

	got, err := handle.Send(context.Background(), "mint", testWalletAddress, big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, txID, got)
}

// The node reports build failures as a hex-encoded message; the error carries
// the decoded text.
func TestTokenSendBuildRejection(t *testing.T) {
	msg := hex.EncodeToString([]byte("contract validate error : account does not exist"))
	client, stop := newNodeClient(t, nodeHandler(map[string]string{
		"/wallet/getcontract":          tokenABIBody,
		"/wallet/triggersmartcontract": `{"result":{"result":false,"code":"CONTRACT_VALIDATE_ERROR","message":"` + msg + `"}}`,
	}))
	defer stop()

	accessor := newTestAccessor(t, client)
	handle, err := accessor.Acquire(context.Background())
	require.NoError(t, err)

	_, err = handle.Send(context.Background(), "mint", testWalletAddress, big.NewInt(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account does not exist")
}

func TestTokenSendBroadcastRejection(t *testing.T) {
	client, stop := newNodeClient(t, nodeHandler(map[string]string{
		"/wallet/getcontract":          tokenABIBody,
		"/wallet/triggersmartcontract": `{"result":{"result":true},"transaction":{"txID":"abc","raw_data":{}}}`,
		"/wallet/broadcasttransaction": `{"result":false,"code":"SIGERROR"}`,
	}))
	defer stop()

	accessor := newTestAccessor(t, client)
	handle, err := accessor.Acquire(context.Background())
	require.NoError(t, err)

	_, err = handle.Send(context.Background(), "mint", testWalletAddress, big.NewInt(5))
	require.Error(t, err)
	assert.Equal(t, entity.KindRequest, entity.KindOf(err))
	assert.Contains(t, err.Error(), "SIGERROR")
}

// The node sometimes reports errors as a bare string and sometimes as an
// object; both normalize into readable messages.
func TestClientNormalizesStringAndObjectErrors(t *testing.T) {
	client, stop := newNodeClient(t, nodeHandler(map[string]string{
		"/wallet/getnowblock": `{"error":{"code":-1,"message":"backend overloaded"}}`,
	}))
	defer stop()

	_, err := client.GetNowBlock(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend overloaded")

	client2, stop2 := newNodeClient(t, nodeHandler(map[string]string{
		"/wallet/getnowblock": `{"error":"node is syncing"}`,
	}))
	defer stop2()

	_, err = client2.GetNowBlock(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node is syncing")
}

func TestClientPropagatesAPIKeyHeader(t *testing.T) {
	var gotKey string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(apiKeyHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"block_header":{"raw_data":{"number":1,"timestamp":1}}}`))
	}
	client, stop := newNodeClient(t, handler)
	defer stop()
	client.apiKey = "test-key"

	_, err := client.GetNowBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
}
