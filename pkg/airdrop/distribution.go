package airdrop

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/merkle"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Claim is everything one recipient needs to claim their token: the leaf
// inputs, the leaf hash and the sibling path to the root.
type Claim struct {
	Index   int            `json:"index"`
	Address common.Address `json:"address"`
	TokenID *big.Int       `json:"tokenId"`
	Leaf    common.Hash    `json:"leaf"`
	Proof   []common.Hash  `json:"proof"`
}

// Key returns the "<address>-<tokenId>" lookup key for the claim.
func (c *Claim) Key() string {
	return ClaimKey(c.Address, c.TokenID)
}

// LeafInput returns the claim's leaf inputs.
func (c *Claim) LeafInput() *LeafInput {
	return &LeafInput{Address: c.Address, TokenID: c.TokenID}
}

// ProofHashes returns the proof as merkle hashes.
func (c *Claim) ProofHashes() []merkle.Hash {
	return util.Map(c.Proof, func(h common.Hash, _ uint64) merkle.Hash {
		return merkle.Hash(h)
	})
}

// Distribution is a built airdrop: the root to publish on chain plus one
// claim per recipient. Only the root must outlive the build; the claims are
// kept so they can be handed out.
type Distribution struct {
	ID           string      `json:"id"`
	Root         common.Hash `json:"root"`
	StartTokenID *big.Int    `json:"startTokenId,omitempty"`
	CreatedAt    int64       `json:"createdAt"`
	Claims       []*Claim    `json:"claims"`
}

// BuildDistribution builds an airdrop in which addresses[i] receives
// startTokenID + i.
func BuildDistribution(addresses []string, startTokenID *big.Int) (*Distribution, error) {
	leaves, err := LeavesFromAddresses(addresses, startTokenID)
	if err != nil {
		return nil, err
	}

	d, err := BuildDistributionFromLeaves(leaves)
	if err != nil {
		return nil, err
	}
	d.StartTokenID = new(big.Int).Set(startTokenID)
	return d, nil
}

// BuildDistributionFromLeaves hashes the leaves, builds the tree and attaches
// each recipient's proof. The tree itself is discarded.
func BuildDistributionFromLeaves(leaves []*LeafInput) (*Distribution, error) {
	if len(leaves) == 0 {
		return nil, merkle.ErrEmptyInput
	}

	hashes := make([]merkle.Hash, len(leaves))
	for i, leaf := range leaves {
		if leaf == nil {
			return nil, merkle.NewMalformedInputError("leaf", "recipient %d is nil", i)
		}
		if err := ValidateTokenID(leaf.TokenID); err != nil {
			return nil, fmt.Errorf("recipient %d: %w", i, err)
		}
		hashes[i] = HashLeaf(leaf)
	}

	tree, err := merkle.BuildTree(hashes)
	if err != nil {
		return nil, err
	}

	claims := make([]*Claim, len(leaves))
	for i, leaf := range leaves {
		proof, err := tree.GenerateProof(i)
		if err != nil {
			return nil, fmt.Errorf("failed to generate proof for recipient %d: %w", i, err)
		}
		claims[i] = &Claim{
			Index:   i,
			Address: leaf.Address,
			TokenID: new(big.Int).Set(leaf.TokenID),
			Leaf:    common.Hash(proof.Leaf),
			Proof: util.Map(proof.Proof, func(h merkle.Hash, _ uint64) common.Hash {
				return common.Hash(h)
			}),
		}
	}

	return &Distribution{
		ID:        uuid.New().String(),
		Root:      common.Hash(tree.Root),
		CreatedAt: time.Now().Unix(),
		Claims:    claims,
	}, nil
}

// ClaimFor returns the claim for an (address, tokenId) pair, or nil.
func (d *Distribution) ClaimFor(address common.Address, tokenID *big.Int) *Claim {
	if tokenID == nil {
		return nil
	}
	for _, c := range d.Claims {
		if c != nil && c.TokenID != nil && c.Address == address && c.TokenID.Cmp(tokenID) == 0 {
			return c
		}
	}
	return nil
}

// ClaimsForAddress returns every claim belonging to an address, in tree order.
func (d *Distribution) ClaimsForAddress(address common.Address) []*Claim {
	return util.Filter(d.Claims, func(c *Claim) bool {
		return c != nil && c.Address == address
	})
}

// ProofsByKey returns proofs keyed by "<address>-<tokenId>".
func (d *Distribution) ProofsByKey() map[string][]common.Hash {
	out := make(map[string][]common.Hash, len(d.Claims))
	for _, c := range d.Claims {
		if c == nil || c.TokenID == nil {
			continue
		}
		out[c.Key()] = c.Proof
	}
	return out
}

// VerifyClaim rehashes the claim's leaf inputs and checks the proof against
// root. A stored leaf that disagrees with its inputs is rejected.
func VerifyClaim(claim *Claim, root common.Hash) bool {
	if claim == nil || ValidateTokenID(claim.TokenID) != nil {
		return false
	}
	leaf := HashLeaf(claim.LeafInput())
	if claim.Leaf != (common.Hash{}) && merkle.Hash(claim.Leaf) != leaf {
		return false
	}
	return merkle.Verify(leaf, claim.ProofHashes(), merkle.Hash(root))
}

// VerifyLeafInput checks that (leaf inputs, proof) is included under root.
func VerifyLeafInput(leaf *LeafInput, proof []merkle.Hash, root merkle.Hash) bool {
	if leaf == nil || ValidateTokenID(leaf.TokenID) != nil {
		return false
	}
	return merkle.Verify(HashLeaf(leaf), proof, root)
}

// VerifyClaims verifies many claims concurrently with at most workers
// goroutines. results[i] corresponds to claims[i].
func VerifyClaims(ctx context.Context, claims []*Claim, root common.Hash, workers int) ([]bool, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]bool, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range claims {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = VerifyClaim(claims[i], root)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Verify checks every claim of the distribution against its own root and
// returns the indexes of claims that fail.
func (d *Distribution) Verify(ctx context.Context, workers int) ([]int, error) {
	results, err := VerifyClaims(ctx, d.Claims, d.Root, workers)
	if err != nil {
		return nil, err
	}

	failed := make([]int, 0)
	for i, ok := range results {
		if !ok {
			failed = append(failed, i)
		}
	}
	return failed, nil
}

// MarshalDistribution serializes a distribution to JSON.
func MarshalDistribution(d *Distribution) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("cannot marshal nil Distribution")
	}
	return json.Marshal(d)
}

// UnmarshalDistribution deserializes a distribution from JSON. Every claim must
// be present and carry a uint256 token id; anything else is a
// *merkle.MalformedInputError.
func UnmarshalDistribution(data []byte) (*Distribution, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var d Distribution
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to Distribution: %w", err)
	}
	for i, c := range d.Claims {
		if c == nil {
			return nil, merkle.NewMalformedInputError("claim", "entry %d is null", i)
		}
		if err := ValidateTokenID(c.TokenID); err != nil {
			return nil, fmt.Errorf("claim %d: %w", i, err)
		}
	}
	if d.StartTokenID != nil {
		if err := ValidateTokenID(d.StartTokenID); err != nil {
			return nil, fmt.Errorf("start token id: %w", err)
		}
	}
	return &d, nil
}

// FormatProof renders a proof as the comma-separated hex list claim forms accept.
func FormatProof(proof []common.Hash) string {
	return strings.Join(util.Map(proof, func(h common.Hash, _ uint64) string {
		return h.Hex()
	}), ",")
}

// ParseProof parses a comma or whitespace separated list of 32-byte hex values.
// An empty string is an empty proof.
func ParseProof(s string) ([]common.Hash, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})

	proof := make([]common.Hash, 0, len(fields))
	for i, f := range fields {
		h, err := merkle.HashFromHex(f)
		if err != nil {
			return nil, fmt.Errorf("proof element %d: %w", i, err)
		}
		proof = append(proof, common.Hash(h))
	}
	return proof, nil
}
