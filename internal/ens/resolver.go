// Package ens resolves ENS names so contract addresses can be given as
// names like "weth.eth".
package ens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// ENS registry, same address on Ethereum mainnet and Sepolia.
var registryAddr = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

var (
	selResolver = []byte{0x01, 0x78, 0xb8, 0xbf} // resolver(bytes32)
	selAddr     = []byte{0x3b, 0x3b, 0x57, 0xde} // addr(bytes32)
)

// ErrNotFound means the name has no resolver or no address record.
var ErrNotFound = errors.New("ens name not found")

// Caller performs static calls. *chain.EVMClient satisfies it.
type Caller interface {
	Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

// IsName reports whether s looks like an ENS name rather than a hex address.
func IsName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || common.IsHexAddress(s) {
		return false
	}
	i := strings.LastIndex(s, ".")
	return i > 0 && i < len(s)-1
}

// Resolve looks up the address record of name: the registry gives the
// resolver, the resolver gives the address.
func Resolve(ctx context.Context, c Caller, name string) (common.Address, error) {
	node := Namehash(strings.ToLower(strings.TrimSpace(name)))

	resolver, err := callAddress(ctx, c, registryAddr, selResolver, node)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying ENS registry: %w", err)
	}
	if resolver == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: no resolver set for %q", ErrNotFound, name)
	}

	addr, err := callAddress(ctx, c, resolver, selAddr, node)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying ENS resolver: %w", err)
	}
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: no address record for %q", ErrNotFound, name)
	}
	return addr, nil
}

// Namehash implements the EIP-137 namehash.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := keccak256([]byte(labels[i]))
		node = common.BytesToHash(keccak256(node[:], label))
	}
	return node
}

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

func callAddress(ctx context.Context, c Caller, to common.Address, selector []byte, node common.Hash) (common.Address, error) {
	data := append(append([]byte{}, selector...), node[:]...)
	out, err := c.Call(ctx, ethereum.CallMsg{To: &to, Data: data})
	if err != nil {
		return common.Address{}, err
	}
	if len(out) < 32 {
		return common.Address{}, nil
	}
	return common.BytesToAddress(out[12:32]), nil
}
