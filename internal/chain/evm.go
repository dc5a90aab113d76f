package chain

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// EVMClient talks JSON-RPC to an EVM node. Every failure is returned as a
// *CallError.
type EVMClient struct {
	url string
	rc  *rpc.Client
	eth *ethclient.Client
}

// NewEVMClient creates a client pointed at url. HTTP endpoints are not
// contacted until the first request.
func NewEVMClient(url string) (*EVMClient, error) {
	rc, err := rpc.DialOptions(context.Background(), url,
		rpc.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &EVMClient{url: url, rc: rc, eth: ethclient.NewClient(rc)}, nil
}

// URL returns the endpoint the client talks to.
func (c *EVMClient) URL() string { return c.url }

// Close releases the underlying connection.
func (c *EVMClient) Close() { c.rc.Close() }

// EstimateGas estimates the gas units msg would consume.
func (c *EVMClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.eth.EstimateGas(ctx, msg)
	if err != nil {
		return 0, wrapErr("eth_estimateGas", err)
	}
	return gas, nil
}

// GasPrice returns the node's suggested legacy gas price in wei.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, wrapErr("eth_gasPrice", err)
	}
	return price, nil
}

// GasTipCap returns the suggested EIP-1559 priority fee in wei.
func (c *EVMClient) GasTipCap(ctx context.Context) (*big.Int, error) {
	tip, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, wrapErr("eth_maxPriorityFeePerGas", err)
	}
	return tip, nil
}

// Balance returns the latest native balance of addr in wei.
func (c *EVMClient) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	bal, err := c.eth.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, wrapErr("eth_getBalance", err)
	}
	return bal, nil
}

// Call executes msg against the latest state without creating a transaction.
func (c *EVMClient) Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	out, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, wrapErr("eth_call", err)
	}
	return out, nil
}

// ChainID returns the chain ID reported by the node.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, wrapErr("eth_chainId", err)
	}
	return id, nil
}

// PendingNonce returns the next nonce for addr, counting pending transactions.
func (c *EVMClient) PendingNonce(ctx context.Context, addr common.Address) (uint64, error) {
	n, err := c.eth.PendingNonceAt(ctx, addr)
	if err != nil {
		return 0, wrapErr("eth_getTransactionCount", err)
	}
	return n, nil
}

// SendTransaction broadcasts a signed transaction and returns its hash.
func (c *EVMClient) SendTransaction(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, wrapErr("eth_sendRawTransaction", err)
	}
	return tx.Hash(), nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, wrapErr("eth_blockNumber", err)
	}
	return n, nil
}

// BaseFee returns the base fee of the latest block, or nil on chains without
// EIP-1559. Only the field needed is decoded, so non-standard headers (Celo,
// some L2s) still work.
func (c *EVMClient) BaseFee(ctx context.Context) (*big.Int, error) {
	var head struct {
		BaseFeePerGas *hexutil.Big `json:"baseFeePerGas"`
	}
	if err := c.rc.CallContext(ctx, &head, "eth_getBlockByNumber", "latest", false); err != nil {
		return nil, wrapErr("eth_getBlockByNumber", err)
	}
	if head.BaseFeePerGas == nil {
		return nil, nil
	}
	return head.BaseFeePerGas.ToInt(), nil
}

// Ping measures round-trip latency with eth_blockNumber.
func (c *EVMClient) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	return time.Since(start), blockNum, err
}
