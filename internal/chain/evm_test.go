package chain

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// rpcErr makes rpcMock answer a method with a JSON-RPC error.
type rpcErr struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// rpcMock creates a test HTTP server that serves a fixed JSON-RPC response
// per method. Pass method→result pairs; any unknown method returns an RPC error.
func rpcMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			ID     json.RawMessage `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		switch result := responses[req.Method].(type) {
		case nil:
			resp["error"] = rpcErr{Code: -32601, Message: "method not found"}
		case rpcErr:
			resp["error"] = result
		default:
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, responses map[string]interface{}) *EVMClient {
	t.Helper()
	c, err := NewEVMClient(rpcMock(t, responses).URL)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func revertData(t *testing.T, reason string) string {
	t.Helper()
	strTy, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: strTy}}.Pack(reason)
	require.NoError(t, err)
	return hexutil.Encode(append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...))
}

var testAddr = common.HexToAddress("0x1234567890abcdef1234567890abcdef12345678")

// ---------------------------------------------------------------------------
// requests
// ---------------------------------------------------------------------------

func TestEstimateGas(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{"eth_estimateGas": "0x5208"})

	gas, err := c.EstimateGas(context.Background(), ethereum.CallMsg{To: &testAddr})
	require.NoError(t, err)
	assert.Equal(t, uint64(21000), gas)
}

func TestGasPrice(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{"eth_gasPrice": "0x3b9aca00"})

	price, err := c.GasPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000_000_000), price)
}

func TestGasTipCap(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{"eth_maxPriorityFeePerGas": "0x59682f00"})

	tip, err := c.GasTipCap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_500_000_000), tip)
}

func TestBalance(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{"eth_getBalance": "0xde0b6b3a7640000"})

	bal, err := c.Balance(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal.String())
}

func TestCall(t *testing.T) {
	word := "0x00000000000000000000000000000000000000000000000000000000000003e8"
	c := newTestClient(t, map[string]interface{}{"eth_call": word})

	out, err := c.Call(context.Background(), ethereum.CallMsg{To: &testAddr, Data: []byte{0x18, 0x16, 0x0d, 0xdd}})
	require.NoError(t, err)
	assert.Equal(t, word, hexutil.Encode(out))
}

func TestChainIDAndNonce(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{
		"eth_chainId":             "0xaa36a7",
		"eth_getTransactionCount": "0x5",
	})

	id, err := c.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(11155111), id.Int64())

	n, err := c.PendingNonce(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)
}

func TestBlockNumberAndPing(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{"eth_blockNumber": "0x10"})

	n, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), n)

	latency, block, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), block)
	assert.Positive(t, int64(latency))
}

func TestSendTransaction(t *testing.T) {
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, To: &testAddr, Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)})
	c := newTestClient(t, map[string]interface{}{"eth_sendRawTransaction": tx.Hash().Hex()})

	hash, err := c.SendTransaction(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), hash)
}

func TestBaseFee(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{
		"eth_getBlockByNumber": map[string]interface{}{"number": "0x1", "baseFeePerGas": "0x7"},
	})
	bf, err := c.BaseFee(context.Background())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), bf)

	legacy := newTestClient(t, map[string]interface{}{
		"eth_getBlockByNumber": map[string]interface{}{"number": "0x1"},
	})
	bf, err = legacy.BaseFee(context.Background())
	require.NoError(t, err)
	assert.Nil(t, bf)
}

func TestGasInfo(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{
		"eth_gasPrice":         "0x77359400",
		"eth_getBlockByNumber": map[string]interface{}{"baseFeePerGas": "0x3b9aca00"},
	})
	info, err := c.GasInfo(context.Background())
	require.NoError(t, err)

	gwei, eip1559 := info.GasPriceDisplay()
	assert.True(t, eip1559)
	assert.Equal(t, "1.00", gwei)
}

func TestGasInfoWithoutBaseFee(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{"eth_gasPrice": "0x77359400"})
	info, err := c.GasInfo(context.Background())
	require.NoError(t, err)

	gwei, eip1559 := info.GasPriceDisplay()
	assert.False(t, eip1559)
	assert.Equal(t, "2.00", gwei)
}

// ---------------------------------------------------------------------------
// errors
// ---------------------------------------------------------------------------

func TestCallRevertWithData(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{
		"eth_call": rpcErr{Code: 3, Message: "execution reverted", Data: revertData(t, "Not owner")},
	})

	_, err := c.Call(context.Background(), ethereum.CallMsg{To: &testAddr})
	require.Error(t, err)

	var ce *CallError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "eth_call", ce.Method)
	assert.Equal(t, "Not owner", ce.RevertReason())
	assert.Equal(t, "execution reverted", ce.ShortMessage())
}

func TestEstimateGasRevertMessage(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{
		"eth_estimateGas": rpcErr{Code: -32000, Message: "execution reverted: Pausable: paused"},
	})

	_, err := c.EstimateGas(context.Background(), ethereum.CallMsg{To: &testAddr})
	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Pausable: paused", ce.RevertReason())
}

func TestCallErrorNoReason(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{
		"eth_gasPrice": rpcErr{Code: -32000, Message: "insufficient funds for gas * price + value\nhave 0 want 1"},
	})

	_, err := c.GasPrice(context.Background())
	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Empty(t, ce.RevertReason())
	assert.Equal(t, "insufficient funds for gas * price + value", ce.ShortMessage())
	assert.Contains(t, ce.Error(), "have 0 want 1")
}

func TestUnknownMethodIsCallError(t *testing.T) {
	c := newTestClient(t, map[string]interface{}{})

	_, err := c.BlockNumber(context.Background())
	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "method not found", ce.ShortMessage())
}

func TestBadJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{not valid json`)) //nolint:errcheck
	}))
	defer srv.Close()

	c, err := NewEVMClient(srv.URL)
	require.NoError(t, err)
	_, err = c.BlockNumber(context.Background())
	assert.Error(t, err)
}

func TestNewEVMClientBadScheme(t *testing.T) {
	_, err := NewEVMClient("ftp://example.com")
	assert.Error(t, err)
}

func TestReasonFromMessage(t *testing.T) {
	tests := map[string]string{
		"execution reverted: Ownable: caller is not the owner": "Ownable: caller is not the owner",
		"execution reverted":                                   "",
		"VM Exception: execution reverted: nope\nstack":        "nope",
		"nonce too low":                                        "",
	}
	for msg, want := range tests {
		assert.Equal(t, want, reasonFromMessage(msg), msg)
	}
}
