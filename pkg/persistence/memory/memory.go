package memory

import (
	"fmt"
	"sync"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// MemoryPersistence is an in-memory implementation of IDistributionPersistence.
// This implementation is intended for TESTING and one-off CLI runs.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
// Deep copies data to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	// root -> Distribution
	distributions map[common.Hash]*airdrop.Distribution

	// root -> PublicationRecord
	publications map[common.Hash]*persistence.PublicationRecord

	closed bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
// Logs a loud warning since nothing survives a restart.
func NewMemoryPersistence(logger *zap.Logger) *MemoryPersistence {
	if logger != nil {
		logger.Sugar().Warnw("Using in-memory persistence - ALL DATA WILL BE LOST ON RESTART",
			"hint", "set AIRDROP_PERSISTENCE_TYPE=badger or redis to keep distributions")
	}

	return &MemoryPersistence{
		distributions: make(map[common.Hash]*airdrop.Distribution),
		publications:  make(map[common.Hash]*persistence.PublicationRecord),
	}
}

// SaveDistribution persists a distribution.
func (m *MemoryPersistence) SaveDistribution(d *airdrop.Distribution) error {
	if d == nil {
		return fmt.Errorf("cannot save nil Distribution")
	}

	cp, err := persistence.CopyDistribution(d)
	if err != nil {
		return fmt.Errorf("failed to copy Distribution: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	m.distributions[d.Root] = cp
	return nil
}

// LoadDistribution retrieves a distribution by root.
func (m *MemoryPersistence) LoadDistribution(root common.Hash) (*airdrop.Distribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	d, exists := m.distributions[root]
	if !exists {
		return nil, nil // Not found is not an error
	}

	return persistence.CopyDistribution(d)
}

// ListDistributions returns all distributions sorted by creation time.
func (m *MemoryPersistence) ListDistributions() ([]*airdrop.Distribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	result := make([]*airdrop.Distribution, 0, len(m.distributions))
	for _, d := range m.distributions {
		cp, err := persistence.CopyDistribution(d)
		if err != nil {
			return nil, err
		}
		result = append(result, cp)
	}
	persistence.SortDistributions(result)

	return result, nil
}

// DeleteDistribution removes a distribution and its publication record.
func (m *MemoryPersistence) DeleteDistribution(root common.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	delete(m.distributions, root)
	delete(m.publications, root)
	return nil
}

// SavePublication records a root publication.
func (m *MemoryPersistence) SavePublication(record *persistence.PublicationRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil PublicationRecord")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	cp := *record
	m.publications[record.Root] = &cp
	return nil
}

// LoadPublication retrieves the publication record for a root.
func (m *MemoryPersistence) LoadPublication(root common.Hash) (*persistence.PublicationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	record, exists := m.publications[root]
	if !exists {
		return nil, nil
	}

	cp := *record
	return &cp, nil
}

// Close shuts down the persistence layer.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return persistence.ErrClosed
	}

	return nil
}
