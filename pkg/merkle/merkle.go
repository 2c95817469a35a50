package merkle

import (
	"bytes"
	"strings"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/util"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// BuildTree creates a binary merkle tree from already-hashed leaves.
// Leaves are used in the order given so that proofs stay positional; duplicate
// leaves are not removed.
//
// Interior nodes are keccak256(min(a,b) || max(a,b)), matching OpenZeppelin's
// MerkleProof and merkletreejs with sortPairs enabled. If there's an odd number
// of nodes at any level, the last node is promoted to the next level unchanged.
func BuildTree(leaves []Hash) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyInput
	}

	// Copy so later mutation of the caller's slice cannot change the tree
	leafLevel := make([]Hash, len(leaves))
	copy(leafLevel, leaves)

	levels := make([][]Hash, 0)
	levels = append(levels, leafLevel)

	currentLevel := leafLevel
	for len(currentLevel) > 1 {
		nextLevel := make([]Hash, 0, (len(currentLevel)+1)/2)

		for i := 0; i < len(currentLevel); i += 2 {
			if i+1 == len(currentLevel) {
				nextLevel = append(nextLevel, currentLevel[i])
				continue
			}
			nextLevel = append(nextLevel, Combine(currentLevel[i], currentLevel[i+1]))
		}

		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	return &MerkleTree{
		Leaves: levels[0],
		Root:   currentLevel[0],
		levels: levels,
	}, nil
}

// LeafCount returns the number of leaves in the tree.
func (mt *MerkleTree) LeafCount() int {
	return len(mt.Leaves)
}

// Depth returns the number of hashing levels above the leaves.
// A single-leaf tree has depth 0 and its root equals the leaf.
func (mt *MerkleTree) Depth() int {
	return len(mt.levels) - 1
}

// GenerateProof creates a merkle proof for the leaf at the given index.
// The proof consists of sibling hashes along the path from leaf to root.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*MerkleProof, error) {
	if leafIndex < 0 || leafIndex >= len(mt.Leaves) {
		return nil, NewMalformedInputError("leaf index", "%d out of bounds (tree has %d leaves)", leafIndex, len(mt.Leaves))
	}

	proof := make([]Hash, 0, mt.Depth())
	index := leafIndex

	for level := 0; level < len(mt.levels)-1; level++ {
		currentLevel := mt.levels[level]

		siblingIndex := index ^ 1
		if siblingIndex < len(currentLevel) {
			proof = append(proof, currentLevel[siblingIndex])
		}
		// otherwise the node was carried up and contributes no sibling

		index = index / 2
	}

	return &MerkleProof{
		LeafIndex: leafIndex,
		Leaf:      mt.Leaves[leafIndex],
		Proof:     proof,
	}, nil
}

// GenerateAllProofs returns one proof per leaf, indexed like Leaves.
func (mt *MerkleTree) GenerateAllProofs() ([]*MerkleProof, error) {
	proofs := make([]*MerkleProof, len(mt.Leaves))
	for i := range mt.Leaves {
		p, err := mt.GenerateProof(i)
		if err != nil {
			return nil, err
		}
		proofs[i] = p
	}
	return proofs, nil
}

// Verify recomputes the root from a leaf and its sibling path and compares it
// with the expected root. A mismatch is an ordinary false, not an error.
func Verify(leaf Hash, proof []Hash, root Hash) bool {
	return util.Reduce(proof, Combine, leaf) == root
}

// VerifyProof verifies that a leaf is included in the merkle tree with the given root.
func VerifyProof(proof *MerkleProof, root Hash) bool {
	if proof == nil {
		return false
	}
	return Verify(proof.Leaf, proof.Proof, root)
}

// VerifyBytes is Verify for untyped input. Every value must be exactly 32 bytes.
func VerifyBytes(leaf []byte, proof [][]byte, root []byte) (bool, error) {
	leafHash, err := HashFromBytes(leaf)
	if err != nil {
		return false, err
	}
	rootHash, err := HashFromBytes(root)
	if err != nil {
		return false, err
	}

	siblings := make([]Hash, len(proof))
	for i, p := range proof {
		siblings[i], err = HashFromBytes(p)
		if err != nil {
			return false, NewMalformedInputError("proof", "element %d: %v", i, err)
		}
	}

	return Verify(leafHash, siblings, rootHash), nil
}

// Combine hashes two nodes into their parent: keccak256(min(a,b) || max(a,b)).
// Combine(a, b) == Combine(b, a) for all inputs.
func Combine(a, b Hash) Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}

	data := make([]byte, 2*HashLength)
	copy(data[0:HashLength], a[:])
	copy(data[HashLength:], b[:])

	return Hash(crypto.Keccak256Hash(data))
}

// HashFromBytes converts a byte slice to a Hash, rejecting anything that is
// not exactly 32 bytes long.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashLength {
		return h, NewMalformedInputError("hash", "expected %d bytes, got %d", HashLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// HashFromHex parses a hex string (with or without 0x prefix) into a Hash.
func HashFromHex(s string) (Hash, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return Hash{}, NewMalformedInputError("hash", "invalid hex %q: %v", s, err)
	}
	return HashFromBytes(b)
}
