package contractCaller

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
)

// IContractCaller is the boundary to the airdrop collectible contract: it
// publishes a distribution root and submits claims, nothing more. Retries are
// the caller's responsibility.
type IContractCaller interface {
	// SetMerkleRoot publishes root as the contract's claim root
	SetMerkleRoot(ctx context.Context, root common.Hash) (*ethereumTypes.Receipt, error)

	// GetMerkleRoot reads the root currently stored on chain
	GetMerkleRoot(ctx context.Context) (common.Hash, error)

	// ClaimNFT submits a recipient's proof for tokenID, minting to owner
	ClaimNFT(
		ctx context.Context,
		proof []common.Hash,
		tokenID *big.Int,
		owner common.Address,
	) (*ethereumTypes.Receipt, error)

	// ContractAddress is the airdrop contract this caller is bound to
	ContractAddress() common.Address
}
