package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known Hardhat/Anvil test account #0. Never fund on mainnet.
const (
	testPrivKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testSignerAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func signingWallet(t *testing.T) (*Wallet, KeyStore) {
	t.Helper()
	ks := NewInMemoryKeystore()
	ref, err := ks.Store("testwal", testPrivKeyHex)
	require.NoError(t, err)
	return &Wallet{Name: "testwal", Address: testSignerAddr, Type: TypeSigning, KeyRef: ref}, ks
}

func legacyTx() *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		To:       &common.Address{1},
		Value:    big.NewInt(1e18),
		Gas:      21000,
		GasPrice: big.NewInt(1e9),
	})
}

func TestSignerAddress(t *testing.T) {
	w := &Wallet{Name: "w", Address: testSignerAddr, Type: TypeSigning}
	s := NewSigner(w, NewInMemoryKeystore())
	assert.Equal(t, common.HexToAddress(testSignerAddr), s.Address())
}

func TestSignTxWatchOnlyError(t *testing.T) {
	w := &Wallet{Name: "watcher", Address: testSignerAddr, Type: TypeWatchOnly}
	_, err := NewSigner(w, NewInMemoryKeystore()).SignTx(legacyTx(), big.NewInt(1))
	assert.ErrorContains(t, err, "watch-only")
}

func TestSignTxKeyNotFound(t *testing.T) {
	w := &Wallet{Name: "missing", Address: testSignerAddr, Type: TypeSigning, KeyRef: "txforge.doesnotexist"}
	_, err := NewSigner(w, NewInMemoryKeystore()).SignTx(legacyTx(), big.NewInt(1))
	assert.ErrorContains(t, err, "retrieving key")
}

func TestSignTxRecoversSender(t *testing.T) {
	w, ks := signingWallet(t)
	s := NewSigner(w, ks)

	for _, id := range []int64{1, 8453} {
		chainID := big.NewInt(id)
		signed, err := s.SignTx(legacyTx(), chainID)
		require.NoError(t, err)

		from, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
		require.NoError(t, err)
		assert.Equal(t, s.Address(), from)
		assert.Equal(t, chainID, signed.ChainId())
	}
}

func TestSignTxDynamicFee(t *testing.T) {
	w, ks := signingWallet(t)
	chainID := big.NewInt(10)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(100),
		Gas:       50000,
		To:        &common.Address{2},
	})

	signed, err := NewSigner(w, ks).SignTx(tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, uint8(types.DynamicFeeTxType), signed.Type())
}

func TestSignRawTxDiffersAcrossChains(t *testing.T) {
	w, ks := signingWallet(t)
	s := NewSigner(w, ks)

	mainnet, err := s.SignRawTx(legacyTx(), big.NewInt(1))
	require.NoError(t, err)
	base, err := s.SignRawTx(legacyTx(), big.NewInt(8453))
	require.NoError(t, err)

	assert.NotEmpty(t, mainnet)
	assert.NotEqual(t, mainnet, base)
}
