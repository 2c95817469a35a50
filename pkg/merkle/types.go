package merkle

// Hash is a 32-byte keccak256 digest used for leaves, interior nodes and roots.
type Hash = [32]byte

// HashLength is the byte width of every node in the tree.
const HashLength = 32

// MerkleTree represents a binary merkle tree built from airdrop leaves.
// The tree uses keccak256 hashing with sorted pairs for Solidity compatibility.
type MerkleTree struct {
	// Leaves contains the leaf hashes in the order they were supplied
	Leaves []Hash

	// Root is the merkle root hash
	Root Hash

	// levels stores all tree levels for proof generation
	// levels[0] = leaves, levels[len-1] = root
	levels [][]Hash
}

// MerkleProof represents a proof that a leaf is included in the tree.
// Because pairs are sorted before hashing, the proof carries only sibling
// values and no left/right position bits.
type MerkleProof struct {
	// LeafIndex is the position of the leaf in the tree's leaf layer
	LeafIndex int

	// Leaf is the hash of the leaf being proven
	Leaf Hash

	// Proof contains the sibling hashes from leaf to root.
	// Levels where the node was carried up unpaired contribute nothing.
	Proof []Hash
}
