package airdrop

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/merkle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// LeafInput is one airdrop entitlement: a recipient address and the token id
// it may claim.
type LeafInput struct {
	Address common.Address
	TokenID *big.Int
}

// NewLeafInput validates and builds a LeafInput.
//
// Addresses may be given with or without 0x prefix. A mixed-case address must
// carry a valid EIP-55 checksum; all-lowercase and all-uppercase are accepted
// as-is.
func NewLeafInput(address string, tokenID *big.Int) (*LeafInput, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if err := ValidateTokenID(tokenID); err != nil {
		return nil, err
	}
	return &LeafInput{
		Address: addr,
		TokenID: new(big.Int).Set(tokenID),
	}, nil
}

// ParseAddress parses a hex Ethereum address.
func ParseAddress(address string) (common.Address, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return common.Address{}, merkle.NewMalformedInputError("address", "%q is not a 20-byte hex address", address)
	}

	if isMixedCase(address) {
		withPrefix := address
		if !strings.HasPrefix(withPrefix, "0x") && !strings.HasPrefix(withPrefix, "0X") {
			withPrefix = "0x" + withPrefix
		}
		mixed, err := common.NewMixedcaseAddressFromString(withPrefix)
		if err != nil {
			return common.Address{}, merkle.NewMalformedInputError("address", "%q: %v", address, err)
		}
		if !mixed.ValidChecksum() {
			return common.Address{}, merkle.NewMalformedInputError("address", "%q has an invalid EIP-55 checksum", address)
		}
		return mixed.Address(), nil
	}

	return common.HexToAddress(address), nil
}

// ValidateTokenID checks that a token id fits a Solidity uint256.
func ValidateTokenID(tokenID *big.Int) error {
	if tokenID == nil {
		return merkle.NewMalformedInputError("token id", "missing")
	}
	if tokenID.Sign() < 0 {
		return merkle.NewMalformedInputError("token id", "%s is negative", tokenID.String())
	}
	if tokenID.Cmp(math.MaxBig256) > 0 {
		return merkle.NewMalformedInputError("token id", "%s exceeds uint256", tokenID.String())
	}
	return nil
}

// ParseTokenID parses a decimal (or 0x-prefixed hex) token id.
func ParseTokenID(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, merkle.NewMalformedInputError("token id", "missing")
	}
	tokenID, ok := math.ParseBig256(s)
	if !ok {
		return nil, merkle.NewMalformedInputError("token id", "%q is not a uint256", s)
	}
	if err := ValidateTokenID(tokenID); err != nil {
		return nil, err
	}
	return tokenID, nil
}

// EncodeLeaf returns the tightly packed leaf preimage:
// address (20 bytes) || tokenId as uint256 (32 bytes, big-endian).
func EncodeLeaf(leaf *LeafInput) []byte {
	data := make([]byte, 0, common.AddressLength+32)
	data = append(data, leaf.Address.Bytes()...)
	data = append(data, common.LeftPadBytes(leaf.TokenID.Bytes(), 32)...)
	return data
}

// HashLeaf computes keccak256(abi.encodePacked(address, uint256 tokenId)),
// the same value Solidity and web3's soliditySha3 produce for the pair.
func HashLeaf(leaf *LeafInput) merkle.Hash {
	return merkle.Hash(crypto.Keccak256Hash(EncodeLeaf(leaf)))
}

// LeavesFromAddresses assigns consecutive token ids starting at startTokenID,
// one per address, in list order. Addresses are not deduplicated.
func LeavesFromAddresses(addresses []string, startTokenID *big.Int) ([]*LeafInput, error) {
	if len(addresses) == 0 {
		return nil, merkle.ErrEmptyInput
	}
	if err := ValidateTokenID(startTokenID); err != nil {
		return nil, err
	}

	leaves := make([]*LeafInput, len(addresses))
	for i, address := range addresses {
		tokenID := new(big.Int).Add(startTokenID, big.NewInt(int64(i)))
		leaf, err := NewLeafInput(address, tokenID)
		if err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, err)
		}
		leaves[i] = leaf
	}
	return leaves, nil
}

// ClaimKey renders the "<address>-<tokenId>" key recipients look their proof up by.
func ClaimKey(address common.Address, tokenID *big.Int) string {
	return fmt.Sprintf("%s-%s", address.Hex(), tokenID.String())
}

func isMixedCase(address string) bool {
	hexPart := strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X")
	return strings.ToLower(hexPart) != hexPart && strings.ToUpper(hexPart) != hexPart
}
