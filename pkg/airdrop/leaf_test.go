package airdrop

import (
	"math/big"
	"strings"
	"testing"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/merkle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

const (
	addrA = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	addrB = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	addrC = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
)

// keccakPacked hashes address||uint256 with an independent keccak implementation
func keccakPacked(t *testing.T, address string, tokenID *big.Int) merkle.Hash {
	t.Helper()
	h := sha3.NewLegacyKeccak256()
	_, err := h.Write(common.HexToAddress(address).Bytes())
	require.NoError(t, err)
	var word [32]byte
	tokenID.FillBytes(word[:])
	_, err = h.Write(word[:])
	require.NoError(t, err)

	var out merkle.Hash
	copy(out[:], h.Sum(nil))
	return out
}

func TestHashLeafMatchesSolidityPacked(t *testing.T) {
	for _, tc := range []struct {
		address string
		tokenID *big.Int
	}{
		{addrA, big.NewInt(0)},
		{addrB, big.NewInt(2)},
		{addrC, big.NewInt(1_000_000)},
		{addrA, new(big.Int).Set(math.MaxBig256)},
	} {
		leaf, err := NewLeafInput(tc.address, tc.tokenID)
		require.NoError(t, err)
		require.Equal(t, keccakPacked(t, tc.address, tc.tokenID), HashLeaf(leaf))
	}
}

func TestEncodeLeafLayout(t *testing.T) {
	leaf, err := NewLeafInput(addrA, big.NewInt(0x0102))
	require.NoError(t, err)

	enc := EncodeLeaf(leaf)
	require.Len(t, enc, 52)
	assert.Equal(t, common.HexToAddress(addrA).Bytes(), enc[:20])
	assert.Equal(t, make([]byte, 30), enc[20:50])
	assert.Equal(t, []byte{0x01, 0x02}, enc[50:])
}

func TestHashLeafDistinguishesInputs(t *testing.T) {
	a1, _ := NewLeafInput(addrA, big.NewInt(1))
	a1again, _ := NewLeafInput(addrA, big.NewInt(1))
	a2, _ := NewLeafInput(addrA, big.NewInt(2))
	b1, _ := NewLeafInput(addrB, big.NewInt(1))

	require.Equal(t, HashLeaf(a1), HashLeaf(a1again))
	require.NotEqual(t, HashLeaf(a1), HashLeaf(a2))
	require.NotEqual(t, HashLeaf(a1), HashLeaf(b1))
}

func TestNewLeafInput(t *testing.T) {
	tooBig := new(big.Int).Add(math.MaxBig256, big.NewInt(1))

	testCases := []struct {
		name      string
		address   string
		tokenID   *big.Int
		expectErr bool
	}{
		{"checksummed", addrA, big.NewInt(1), false},
		{"lowercase", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", big.NewInt(1), false},
		{"no prefix", "f39fd6e51aad88f6f4ce6ab8827279cfffb92266", big.NewInt(1), false},
		{"bad checksum", "0xF39fd6e51aad88F6F4ce6aB8827279cffFb92266", big.NewInt(1), true},
		{"short address", "0x1234", big.NewInt(1), true},
		{"not hex", "0xzz9Fd6e51aad88F6F4ce6aB8827279cffFb92266", big.NewInt(1), true},
		{"empty address", "", big.NewInt(1), true},
		{"negative token", addrA, big.NewInt(-1), true},
		{"token overflow", addrA, tooBig, true},
		{"nil token", addrA, nil, true},
		{"max token", addrA, math.MaxBig256, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			leaf, err := NewLeafInput(tc.address, tc.tokenID)
			if tc.expectErr {
				require.Error(t, err)
				require.True(t, merkle.IsMalformedInput(err))
				require.Nil(t, leaf)
				return
			}
			require.NoError(t, err)
			require.Equal(t, common.HexToAddress(tc.address), leaf.Address)
			require.Equal(t, 0, leaf.TokenID.Cmp(tc.tokenID))
		})
	}
}

func TestNewLeafInputCopiesTokenID(t *testing.T) {
	tokenID := big.NewInt(7)
	leaf, err := NewLeafInput(addrA, tokenID)
	require.NoError(t, err)

	tokenID.SetInt64(8)
	require.Equal(t, int64(7), leaf.TokenID.Int64())
}

func TestParseTokenID(t *testing.T) {
	v, err := ParseTokenID("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), v.Int64())

	v, err = ParseTokenID("0x2a")
	require.NoError(t, err)
	require.Equal(t, int64(42), v.Int64())

	for _, bad := range []string{"", "  ", "-1", "abc", "0x1" + strings.Repeat("0", 64)} {
		_, err := ParseTokenID(bad)
		require.Error(t, err, "input %q", bad)
		require.True(t, merkle.IsMalformedInput(err))
	}
}

func TestLeavesFromAddresses(t *testing.T) {
	leaves, err := LeavesFromAddresses([]string{addrA, addrB, addrA}, big.NewInt(10))
	require.NoError(t, err)
	require.Len(t, leaves, 3)

	for i, leaf := range leaves {
		require.Equal(t, int64(10+i), leaf.TokenID.Int64())
	}
	// Duplicates are kept
	require.Equal(t, leaves[0].Address, leaves[2].Address)

	_, err = LeavesFromAddresses(nil, big.NewInt(1))
	require.ErrorIs(t, err, merkle.ErrEmptyInput)

	_, err = LeavesFromAddresses([]string{addrA, "nope"}, big.NewInt(1))
	require.Error(t, err)
	require.True(t, merkle.IsMalformedInput(err))
	require.Contains(t, err.Error(), "recipient 1")

	_, err = LeavesFromAddresses([]string{addrA}, big.NewInt(-5))
	require.True(t, merkle.IsMalformedInput(err))
}

func TestLeavesFromAddressesOverflow(t *testing.T) {
	// The second recipient's token id would exceed uint256
	_, err := LeavesFromAddresses([]string{addrA, addrB}, math.MaxBig256)
	require.Error(t, err)
	require.True(t, merkle.IsMalformedInput(err))
}

func TestClaimKey(t *testing.T) {
	require.Equal(t,
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266-5",
		ClaimKey(common.HexToAddress(addrA), big.NewInt(5)))
}
