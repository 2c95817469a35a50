package util

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// Well-known anvil/hardhat account #0
const anvilKey0 = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestDeriveAddressFromECDSAPrivateKeyString(t *testing.T) {
	addr, err := DeriveAddressFromECDSAPrivateKeyString(anvilKey0)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), addr)

	// Prefix is optional
	addr2, err := DeriveAddressFromECDSAPrivateKeyString(anvilKey0[2:])
	require.NoError(t, err)
	require.Equal(t, addr, addr2)
}

func TestStringToECDSAPrivateKey_Invalid(t *testing.T) {
	_, err := StringToECDSAPrivateKey("0x1234")
	require.Error(t, err)

	_, err = DeriveAddressFromECDSAPrivateKey(nil)
	require.Error(t, err)
}

func TestMapFilter(t *testing.T) {
	in := []int{1, 2, 3, 4}
	doubled := Map(in, func(v int, i uint64) int { return v * 2 })
	require.Equal(t, []int{2, 4, 6, 8}, doubled)

	odd := Filter(in, func(v int) bool { return v%2 == 1 })
	require.Equal(t, []int{1, 3}, odd)

	require.Empty(t, Filter(in, func(int) bool { return false }))
}
