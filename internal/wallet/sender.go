package wallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mohsinsiddi/txforge/internal/engine"
)

// TxBackend is the chain access a Sender needs. *chain.EVMClient satisfies it.
type TxBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonce(ctx context.Context, addr common.Address) (uint64, error)
	GasTipCap(ctx context.Context) (*big.Int, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	BaseFee(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) (common.Hash, error)
}

// Sender builds, signs and broadcasts contract transactions for one signing
// wallet.
type Sender struct {
	signer  *Signer
	backend TxBackend
	log     *zap.Logger
}

// NewSender returns a Sender. A nil logger disables logging.
func NewSender(signer *Signer, backend TxBackend, log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{signer: signer, backend: backend, log: log}
}

// Address is the sending account.
func (s *Sender) Address() common.Address { return s.signer.Address() }

// SendTransaction sends data with value to the contract at to and returns the
// transaction hash once the node accepts it. It does not wait for inclusion.
func (s *Sender) SendTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	from := s.Address()
	if value == nil {
		value = new(big.Int)
	}

	var (
		chainID *big.Int
		nonce   uint64
		gas     uint64
		baseFee *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		chainID, err = s.backend.ChainID(gctx)
		return err
	})
	g.Go(func() (err error) {
		nonce, err = s.backend.PendingNonce(gctx, from)
		return err
	})
	g.Go(func() (err error) {
		gas, err = s.backend.EstimateGas(gctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
		return err
	})
	g.Go(func() error {
		// Missing base fee means a pre-London chain.
		bf, err := s.backend.BaseFee(gctx)
		if err == nil {
			baseFee = bf
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return common.Hash{}, err
	}

	gasLimit := engine.BufferedGas(gas)

	tx, err := s.buildTx(ctx, chainID, nonce, gasLimit, baseFee, to, value, data)
	if err != nil {
		return common.Hash{}, err
	}

	signed, err := s.signer.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, err
	}

	s.log.Debug("broadcasting transaction",
		zap.String("from", from.Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gasLimit),
		zap.Uint8("type", signed.Type()),
	)
	hash, err := s.backend.SendTransaction(ctx, signed)
	if err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (s *Sender) buildTx(ctx context.Context, chainID *big.Int, nonce, gas uint64, baseFee *big.Int, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	if baseFee != nil {
		tip, err := s.backend.GasTipCap(ctx)
		if err == nil {
			// maxFee = 2*baseFee + tip
			feeCap := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)
			return types.NewTx(&types.DynamicFeeTx{
				ChainID:   chainID,
				Nonce:     nonce,
				GasTipCap: tip,
				GasFeeCap: feeCap,
				Gas:       gas,
				To:        &to,
				Value:     value,
				Data:      data,
			}), nil
		}
		s.log.Debug("tip cap unavailable, using legacy pricing", zap.Error(err))
	}

	price, err := s.backend.GasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: price,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     data,
	}), nil
}
