package persistence

import (
	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/ethereum/go-ethereum/common"
)

// IDistributionPersistence defines the interface for archiving built airdrop
// distributions so claims can be served again after a restart.
// All implementations must be thread-safe.
//
// The on-chain root remains the source of truth; this archive only keeps the
// per-recipient proofs that would otherwise have to be recomputed from the
// original recipient list.
type IDistributionPersistence interface {
	// Distribution Management

	// SaveDistribution persists a distribution keyed by its root.
	// Saving a distribution with an existing root overwrites it (idempotent).
	SaveDistribution(d *airdrop.Distribution) error

	// LoadDistribution retrieves a distribution by root.
	// Returns nil if it doesn't exist, error only on storage failure.
	LoadDistribution(root common.Hash) (*airdrop.Distribution, error)

	// ListDistributions returns all distributions sorted by CreatedAt, then root.
	// Returns empty slice if none exist, error only on storage failure.
	ListDistributions() ([]*airdrop.Distribution, error)

	// DeleteDistribution removes a distribution and its publication record.
	// Idempotent - returns nil if it doesn't exist.
	DeleteDistribution(root common.Hash) error

	// Publication Tracking

	// SavePublication records that a root was written to the airdrop contract.
	SavePublication(record *PublicationRecord) error

	// LoadPublication returns the publication record for a root, or nil.
	LoadPublication(root common.Hash) (*PublicationRecord, error)

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations should return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	HealthCheck() error
}
