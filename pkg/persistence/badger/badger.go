package badger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Key prefixes for namespacing
const (
	keyPrefixDistribution = "distribution:"
	keyPrefixPublication  = "publication:"
	keySchemaVersion      = "metadata:schema_version"
	currentSchemaVersion  = "v1"

	gcInterval     = 5 * time.Minute
	gcDiscardRatio = 0.5
)

// BadgerPersistence is a disk-backed persistence implementation using Badger.
// Provides durable, embedded storage with ACID guarantees.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerPersistence creates a new Badger-backed persistence layer.
// The database is opened at the specified path with SyncWrites enabled for durability.
// A background goroutine is started for garbage collection.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = newBadgerLoggerAdapter(logger)
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger persistence initialized", "path", absPath)

	return bp, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}

		return nil
	})
}

// runGC runs periodic value log garbage collection in the background
func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(gcDiscardRatio)
			if err != nil && !errors.Is(err, badgerdb.ErrNoRewrite) {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func distributionKey(root common.Hash) []byte {
	return []byte(keyPrefixDistribution + root.Hex())
}

func publicationKey(root common.Hash) []byte {
	return []byte(keyPrefixPublication + root.Hex())
}

// get copies the value stored at key, returning nil when the key is absent
func (b *BadgerPersistence) get(key []byte) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

// SaveDistribution persists a distribution
func (b *BadgerPersistence) SaveDistribution(d *airdrop.Distribution) error {
	if d == nil {
		return fmt.Errorf("cannot save nil Distribution")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalDistribution(d)
	if err != nil {
		return fmt.Errorf("failed to marshal Distribution: %w", err)
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(distributionKey(d.Root), data)
	})
}

// LoadDistribution retrieves a distribution by root
func (b *BadgerPersistence) LoadDistribution(root common.Hash) (*airdrop.Distribution, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	data, err := b.get(distributionKey(root))
	if err != nil {
		return nil, fmt.Errorf("failed to load Distribution: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	d, err := persistence.UnmarshalDistribution(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal Distribution: %w", err)
	}
	return d, nil
}

// ListDistributions returns all distributions sorted by creation time
func (b *BadgerPersistence) ListDistributions() ([]*airdrop.Distribution, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	distributions := make([]*airdrop.Distribution, 0)

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixDistribution)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			data, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}

			d, err := persistence.UnmarshalDistribution(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal Distribution, skipping",
					"key", string(item.Key()), "error", err)
				continue
			}

			distributions = append(distributions, d)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list Distributions: %w", err)
	}

	persistence.SortDistributions(distributions)
	return distributions, nil
}

// DeleteDistribution removes a distribution and its publication record
func (b *BadgerPersistence) DeleteDistribution(root common.Hash) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Delete(distributionKey(root)); err != nil {
			return err
		}
		return txn.Delete(publicationKey(root))
	})
}

// SavePublication records a root publication
func (b *BadgerPersistence) SavePublication(record *persistence.PublicationRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil PublicationRecord")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalPublicationRecord(record)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(publicationKey(record.Root), data)
	})
}

// LoadPublication retrieves the publication record for a root
func (b *BadgerPersistence) LoadPublication(root common.Hash) (*persistence.PublicationRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	data, err := b.get(publicationKey(root))
	if err != nil {
		return nil, fmt.Errorf("failed to load PublicationRecord: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	return persistence.UnmarshalPublicationRecord(data)
}

// Close stops background GC and closes the database
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Infow("Badger persistence closed")
	return nil
}

// HealthCheck verifies the database is open and readable
func (b *BadgerPersistence) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		return nil
	})
}
