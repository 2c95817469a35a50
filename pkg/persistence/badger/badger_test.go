package badger

import (
	"testing"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/logger"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence/persistencetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerPersistence(t *testing.T) {
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	persistencetest.Run(t, func(t *testing.T) persistence.IDistributionPersistence {
		bp, err := NewBadgerPersistence(t.TempDir(), testLogger)
		require.NoError(t, err)
		return bp
	})
}

func TestBadgerPersistence_SurvivesReopen(t *testing.T) {
	tmpDir := t.TempDir()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	bp, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)

	d := persistencetest.NewTestDistribution(t, 7, 1234)
	require.NoError(t, bp.SaveDistribution(d))
	require.NoError(t, bp.SavePublication(&persistence.PublicationRecord{Root: d.Root, BlockNumber: 9}))
	require.NoError(t, bp.Close())

	bp2, err := NewBadgerPersistence(tmpDir, testLogger)
	require.NoError(t, err)
	defer func() { _ = bp2.Close() }()

	loaded, err := bp2.LoadDistribution(d.Root)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, d.ID, loaded.ID)

	record, err := bp2.LoadPublication(d.Root)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, uint64(9), record.BlockNumber)
}
