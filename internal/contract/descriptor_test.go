package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelector(t *testing.T) {
	tests := []struct {
		name     string
		d        Descriptor
		expected string
	}{
		{
			"balanceOf(address)",
			Descriptor{Name: "balanceOf", Inputs: []Param{{Type: "address"}}},
			"0x70a08231",
		},
		{
			"transfer(address,uint256)",
			Descriptor{Name: "transfer", Inputs: []Param{{Type: "address"}, {Type: "uint256"}}},
			"0xa9059cbb",
		},
		{
			"name()",
			Descriptor{Name: "name", Inputs: []Param{}},
			"0x06fdde03",
		},
		{
			"decimals()",
			Descriptor{Name: "decimals"},
			"0x313ce567",
		},
		{
			"approve(address,uint256)",
			Descriptor{Name: "approve", Inputs: []Param{{Type: "address"}, {Type: "uint256"}}},
			"0x095ea7b3",
		},
		{
			"allowance(address,address)",
			Descriptor{Name: "allowance", Inputs: []Param{{Type: "address"}, {Type: "address"}}},
			"0xdd62ed3e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.d.Signature())
			assert.Equal(t, tt.expected, tt.d.Selector())
		})
	}
}

func TestSignatureTupleExpansion(t *testing.T) {
	d := Descriptor{
		Name: "batch",
		Inputs: []Param{{
			Type: "tuple[]",
			Components: []Param{
				{Type: "address"},
				{Type: "tuple", Components: []Param{{Type: "uint256"}, {Type: "bool"}}},
			},
		}},
	}
	assert.Equal(t, "batch((address,(uint256,bool))[])", d.Signature())
}

func TestMutabilityPredicates(t *testing.T) {
	tests := []struct {
		m        Mutability
		readOnly bool
		payable  bool
	}{
		{Pure, true, false},
		{View, true, false},
		{NonPayable, false, false},
		{Payable, false, true},
	}
	for _, tt := range tests {
		d := Descriptor{Mutability: tt.m}
		assert.Equal(t, tt.readOnly, d.IsReadOnly(), string(tt.m))
		assert.Equal(t, tt.payable, d.IsPayable(), string(tt.m))
		assert.True(t, tt.m.Valid())
	}
	assert.False(t, Mutability("constant").Valid())
}

func TestInputKey(t *testing.T) {
	d := Descriptor{Inputs: []Param{{Name: "to"}, {Name: ""}, {Name: "amount"}}}
	assert.Equal(t, "to", d.InputKey(0))
	assert.Equal(t, "arg1", d.InputKey(1))
	assert.Equal(t, "amount", d.InputKey(2))
}

func TestDescriptorString(t *testing.T) {
	d := Descriptor{
		Name:       "balanceOf",
		Inputs:     []Param{{Name: "owner", Type: "address"}},
		Outputs:    []Param{{Type: "uint256"}},
		Mutability: View,
	}
	assert.Equal(t, "function balanceOf(address owner) view returns (uint256)", d.String())

	d = Descriptor{Name: "pause", Mutability: NonPayable}
	assert.Equal(t, "function pause()", d.String())
}
