package caller

import (
	"context"
	"math/big"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// SetMerkleRoot publishes a distribution root to the airdrop contract
func (cc *ContractCaller) SetMerkleRoot(ctx context.Context, root common.Hash) (*types.Receipt, error) {
	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build transaction options")
	}

	tx, err := cc.airdrop.SetMerkleRoot(txOpts, root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create setMerkleRoot transaction for root %s", root.Hex())
	}

	cc.logger.Sugar().Infow("Publishing merkle root",
		"contract", cc.contractAddress.Hex(),
		"root", root.Hex(),
	)

	return cc.signAndSendTransaction(ctx, tx, "SetMerkleRoot")
}

// GetMerkleRoot reads the root the contract currently checks claims against
func (cc *ContractCaller) GetMerkleRoot(ctx context.Context) (common.Hash, error) {
	root, err := cc.airdrop.MerkleRoot(&bind.CallOpts{Context: ctx})
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "failed to read merkle root from %s", cc.contractAddress.Hex())
	}
	return common.Hash(root), nil
}

// ClaimNFT submits a recipient's proof. Token id and owner are validated
// locally; whether the proof is accepted is up to the contract.
func (cc *ContractCaller) ClaimNFT(
	ctx context.Context,
	proof []common.Hash,
	tokenID *big.Int,
	owner common.Address,
) (*types.Receipt, error) {
	if err := airdrop.ValidateTokenID(tokenID); err != nil {
		return nil, err
	}
	if owner == (common.Address{}) {
		return nil, errors.New("owner cannot be the zero address")
	}

	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build transaction options")
	}

	proofBytes := make([][32]byte, len(proof))
	for i, p := range proof {
		proofBytes[i] = p
	}

	tx, err := cc.airdrop.ClaimNFT(txOpts, proofBytes, tokenID, owner)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create claimNFT transaction for token %s and owner %s", tokenID.String(), owner.Hex())
	}

	cc.logger.Sugar().Infow("Submitting claim",
		"contract", cc.contractAddress.Hex(),
		"owner", owner.Hex(),
		"tokenId", tokenID.String(),
		"proofLength", len(proof),
	)

	return cc.signAndSendTransaction(ctx, tx, "ClaimNFT")
}
