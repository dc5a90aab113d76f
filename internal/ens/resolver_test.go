package ens

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamehashVectors(t *testing.T) {
	// EIP-137 vectors.
	assert.Equal(t, common.Hash{}, Namehash(""))
	assert.Equal(t, "0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae", Namehash("eth").Hex())
	assert.Equal(t, "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f", Namehash("foo.eth").Hex())
}

func TestNamehashCaseSensitive(t *testing.T) {
	// Names are normalised by Resolve, not by Namehash.
	assert.NotEqual(t, Namehash("Test.eth"), Namehash("test.eth"))
	assert.NotEqual(t, Namehash("test.eth"), Namehash("sub.test.eth"))
}

func TestIsName(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"vitalik.eth", true},
		{"sub.vitalik.eth", true},
		{" weth.eth ", true},
		{"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", false},
		{"eth", false},
		{".eth", false},
		{"foo.", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsName(tc.in), "%q", tc.in)
	}
}

// fakeCaller answers calls by target address and checks the namehash.
type fakeCaller struct {
	t       *testing.T
	node    common.Hash
	answers map[common.Address]string
	err     error
	calls   int
}

func (f *fakeCaller) Call(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	require.Len(f.t, msg.Data, 36)
	assert.Equal(f.t, f.node[:], msg.Data[4:])
	out, ok := f.answers[*msg.To]
	if !ok {
		return nil, nil
	}
	return hexutil.MustDecode(out), nil
}

const (
	publicResolver = "0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41"
	vitalik        = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
)

func word(addr string) string {
	return hexutil.Encode(common.LeftPadBytes(common.HexToAddress(addr).Bytes(), 32))
}

func TestResolve(t *testing.T) {
	c := &fakeCaller{t: t, node: Namehash("vitalik.eth"), answers: map[common.Address]string{
		registryAddr:                        word(publicResolver),
		common.HexToAddress(publicResolver): word(vitalik),
	}}
	addr, err := Resolve(context.Background(), c, "Vitalik.eth")
	require.NoError(t, err)
	assert.Equal(t, vitalik, addr.Hex())
	assert.Equal(t, 2, c.calls)
}

func TestResolveNoResolver(t *testing.T) {
	c := &fakeCaller{t: t, node: Namehash("nonexistent.eth"), answers: map[common.Address]string{
		registryAddr: word("0x0000000000000000000000000000000000000000"),
	}}
	_, err := Resolve(context.Background(), c, "nonexistent.eth")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no resolver")
}

func TestResolveNoAddressRecord(t *testing.T) {
	c := &fakeCaller{t: t, node: Namehash("empty.eth"), answers: map[common.Address]string{
		registryAddr: word(publicResolver),
	}}
	_, err := Resolve(context.Background(), c, "empty.eth")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "no address record")
}

func TestResolveCallError(t *testing.T) {
	c := &fakeCaller{t: t, err: errors.New("connection refused")}
	_, err := Resolve(context.Background(), c, "vitalik.eth")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "ENS registry")
}
