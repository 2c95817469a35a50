package persistence

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrClosed is returned by every operation on a closed persistence layer.
var ErrClosed = errors.New("persistence layer is closed")

// PublicationRecord captures the transaction that set a distribution's root
// on the airdrop contract.
type PublicationRecord struct {
	// Root is the merkle root that was published
	Root common.Hash `json:"root"`

	// ContractAddress is the airdrop contract the root was written to
	ContractAddress common.Address `json:"contractAddress"`

	// ChainID of the network the transaction was mined on
	ChainID uint64 `json:"chainId"`

	// TxHash is the setMerkleRoot transaction hash
	TxHash common.Hash `json:"txHash"`

	// BlockNumber the transaction was included in
	BlockNumber uint64 `json:"blockNumber"`

	// PublishedAt is the Unix timestamp at which the receipt was observed
	PublishedAt int64 `json:"publishedAt"`
}
