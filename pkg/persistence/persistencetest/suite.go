// Package persistencetest holds the behavioural suite every
// IDistributionPersistence backend must pass.
package persistencetest

import (
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens a fresh, empty backend for one subtest.
type Factory func(t *testing.T) persistence.IDistributionPersistence

var testAddresses = []string{
	"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
	"0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
	"0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
}

// NewTestDistribution builds a small distribution whose root depends on startTokenID.
func NewTestDistribution(t *testing.T, startTokenID int64, createdAt int64) *airdrop.Distribution {
	t.Helper()
	d, err := airdrop.BuildDistribution(testAddresses, big.NewInt(startTokenID))
	require.NoError(t, err)
	d.CreatedAt = createdAt
	return d
}

// Run executes the full suite against backends produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		d := NewTestDistribution(t, 1, 1000)
		require.NoError(t, store.SaveDistribution(d))

		loaded, err := store.LoadDistribution(d.Root)
		require.NoError(t, err)
		require.NotNil(t, loaded)

		assert.Equal(t, d.ID, loaded.ID)
		assert.Equal(t, d.Root, loaded.Root)
		assert.Equal(t, d.CreatedAt, loaded.CreatedAt)
		assert.Equal(t, 0, d.StartTokenID.Cmp(loaded.StartTokenID))
		require.Len(t, loaded.Claims, len(d.Claims))
		for i := range d.Claims {
			assert.Equal(t, d.Claims[i].Proof, loaded.Claims[i].Proof)
			assert.True(t, airdrop.VerifyClaim(loaded.Claims[i], loaded.Root))
		}
	})

	t.Run("LoadNotFound", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		loaded, err := store.LoadDistribution(common.HexToHash("0xdead"))
		require.NoError(t, err)
		assert.Nil(t, loaded)

		record, err := store.LoadPublication(common.HexToHash("0xdead"))
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("SaveNil", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		err := store.SaveDistribution(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil Distribution")

		err = store.SavePublication(nil)
		require.Error(t, err)
	})

	t.Run("SaveIsIdempotentPerRoot", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		d := NewTestDistribution(t, 1, 1000)
		require.NoError(t, store.SaveDistribution(d))

		again := NewTestDistribution(t, 1, 2000)
		require.Equal(t, d.Root, again.Root)
		require.NoError(t, store.SaveDistribution(again))

		all, err := store.ListDistributions()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, again.ID, all[0].ID)
	})

	t.Run("ListSorted", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		empty, err := store.ListDistributions()
		require.NoError(t, err)
		assert.Empty(t, empty)

		d3 := NewTestDistribution(t, 300, 3000)
		d1 := NewTestDistribution(t, 100, 1000)
		d2 := NewTestDistribution(t, 200, 2000)
		for _, d := range []*airdrop.Distribution{d3, d1, d2} {
			require.NoError(t, store.SaveDistribution(d))
		}

		all, err := store.ListDistributions()
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, d1.Root, all[0].Root)
		assert.Equal(t, d2.Root, all[1].Root)
		assert.Equal(t, d3.Root, all[2].Root)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		d := NewTestDistribution(t, 1, 1000)
		require.NoError(t, store.SaveDistribution(d))
		require.NoError(t, store.SavePublication(&persistence.PublicationRecord{Root: d.Root, ChainID: 31337}))

		require.NoError(t, store.DeleteDistribution(d.Root))

		loaded, err := store.LoadDistribution(d.Root)
		require.NoError(t, err)
		assert.Nil(t, loaded)

		record, err := store.LoadPublication(d.Root)
		require.NoError(t, err)
		assert.Nil(t, record)

		all, err := store.ListDistributions()
		require.NoError(t, err)
		assert.Empty(t, all)

		// Idempotent
		require.NoError(t, store.DeleteDistribution(d.Root))
	})

	t.Run("Publication", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		d := NewTestDistribution(t, 1, 1000)
		record := &persistence.PublicationRecord{
			Root:            d.Root,
			ContractAddress: common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
			ChainID:         31337,
			TxHash:          common.HexToHash("0xabc"),
			BlockNumber:     42,
			PublishedAt:     1700000000,
		}
		require.NoError(t, store.SavePublication(record))

		loaded, err := store.LoadPublication(d.Root)
		require.NoError(t, err)
		require.Equal(t, record, loaded)
	})

	t.Run("ReturnedValuesAreCopies", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		d := NewTestDistribution(t, 1, 1000)
		require.NoError(t, store.SaveDistribution(d))

		// Mutating the original after save must not reach the store
		d.Claims[0].Proof[0][0] ^= 0xff

		loaded, err := store.LoadDistribution(d.Root)
		require.NoError(t, err)
		assert.True(t, airdrop.VerifyClaim(loaded.Claims[0], loaded.Root))

		loaded.Claims[0].TokenID.SetInt64(999)
		again, err := store.LoadDistribution(d.Root)
		require.NoError(t, err)
		assert.Equal(t, int64(1), again.Claims[0].TokenID.Int64())
	})

	t.Run("ClosedStore", func(t *testing.T) {
		store := newStore(t)
		d := NewTestDistribution(t, 1, 1000)

		require.NoError(t, store.HealthCheck())
		require.NoError(t, store.Close())
		require.NoError(t, store.Close()) // Idempotent

		require.Error(t, store.HealthCheck())
		require.Error(t, store.SaveDistribution(d))
		_, err := store.LoadDistribution(d.Root)
		require.Error(t, err)
		_, err = store.ListDistributions()
		require.Error(t, err)
		require.Error(t, store.DeleteDistribution(d.Root))
		require.Error(t, store.SavePublication(&persistence.PublicationRecord{Root: d.Root}))
		_, err = store.LoadPublication(d.Root)
		require.Error(t, err)
	})

	t.Run("ConcurrentSaves", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		const n = 10
		ds := make([]*airdrop.Distribution, n)
		for i := 0; i < n; i++ {
			ds[i] = NewTestDistribution(t, int64(1000+i*10), int64(i))
		}

		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(d *airdrop.Distribution) {
				defer wg.Done()
				if err := store.SaveDistribution(d); err != nil {
					errs <- fmt.Errorf("save %s: %w", d.Root.Hex(), err)
				}
			}(ds[i])
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		all, err := store.ListDistributions()
		require.NoError(t, err)
		require.Len(t, all, n)
		for i := range all {
			assert.Equal(t, ds[i].Root, all[i].Root)
		}
	})
}
