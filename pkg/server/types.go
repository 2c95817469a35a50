package server

import (
	"math/big"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
)

// BuildDistributionRequest is the body of POST /distributions.
// StartTokenID is a decimal or 0x-prefixed string; it defaults to the
// service's configured start token id.
type BuildDistributionRequest struct {
	Addresses    []string `json:"addresses"`
	StartTokenID string   `json:"startTokenId,omitempty"`
}

// DistributionSummary describes an archived distribution without its claims
type DistributionSummary struct {
	ID           string                         `json:"id"`
	Root         common.Hash                    `json:"root"`
	StartTokenID *big.Int                       `json:"startTokenId,omitempty"`
	Recipients   int                            `json:"recipients"`
	CreatedAt    int64                          `json:"createdAt"`
	Publication  *persistence.PublicationRecord `json:"publication,omitempty"`
}

func summarize(d *airdrop.Distribution, publication *persistence.PublicationRecord) *DistributionSummary {
	return &DistributionSummary{
		ID:           d.ID,
		Root:         d.Root,
		StartTokenID: d.StartTokenID,
		Recipients:   len(d.Claims),
		CreatedAt:    d.CreatedAt,
		Publication:  publication,
	}
}

// ClaimResponse is returned by GET /claim. ProofString is the comma separated
// form a claim page accepts.
type ClaimResponse struct {
	Root   common.Hash     `json:"root"`
	Claims []*ClaimPayload `json:"claims"`
}

type ClaimPayload struct {
	*airdrop.Claim
	Key         string `json:"key"`
	ProofString string `json:"proofString"`
}

// VerifyRequest is the body of POST /verify. Root is optional when the
// service is bound to a contract.
type VerifyRequest struct {
	Address string   `json:"address"`
	TokenID string   `json:"tokenId"`
	Proof   []string `json:"proof"`
	Root    string   `json:"root,omitempty"`
}

type VerifyResponse struct {
	Valid bool        `json:"valid"`
	Root  common.Hash `json:"root"`
	Leaf  common.Hash `json:"leaf"`
}

// PublishRequest is the body of POST /publish
type PublishRequest struct {
	Root string `json:"root"`
}

type RootResponse struct {
	ContractAddress common.Address `json:"contractAddress"`
	Root            common.Hash    `json:"root"`
	Archived        bool           `json:"archived"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
