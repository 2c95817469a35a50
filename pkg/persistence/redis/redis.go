package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key prefixes for namespacing in Redis
const (
	keyPrefixDistribution = "airdrop:distribution:"
	keyPrefixPublication  = "airdrop:publication:"
	keySchemaVersion      = "airdrop:metadata:schema_version"
	currentSchemaVersion  = "v1"

	// Redis has no prefix iteration, so listing goes through an index set
	keySetDistributions = "airdrop:distributions:index"

	operationTimeout = 5 * time.Second
)

// RedisPersistence is a persistence implementation using Redis, for operators
// that serve claims from more than one process.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is an optional custom prefix prepended to every key, e.g.
	// "staging:" gives keys like "staging:airdrop:distribution:0x...".
	KeyPrefix string
}

// NewRedisPersistence creates a new Redis-backed persistence layer.
func NewRedisPersistence(cfg *RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis persistence initialized",
		"address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)

	return rp, nil
}

// prefixKey adds the custom key prefix (if configured) to a key
func (r *RedisPersistence) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

func (r *RedisPersistence) distributionKey(root common.Hash) string {
	return r.prefixKey(keyPrefixDistribution + root.Hex())
}

func (r *RedisPersistence) publicationKey(root common.Hash) string {
	return r.prefixKey(keyPrefixPublication + root.Hex())
}

// initSchema initializes or validates the schema version
func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if err == redis.Nil {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}

	return nil
}

// SaveDistribution persists a distribution and adds its root to the index set
func (r *RedisPersistence) SaveDistribution(d *airdrop.Distribution) error {
	if d == nil {
		return fmt.Errorf("cannot save nil Distribution")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalDistribution(d)
	if err != nil {
		return fmt.Errorf("failed to marshal Distribution: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.distributionKey(d.Root), data, 0)
	pipe.SAdd(ctx, r.prefixKey(keySetDistributions), d.Root.Hex())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save Distribution: %w", err)
	}
	return nil
}

// LoadDistribution retrieves a distribution by root
func (r *RedisPersistence) LoadDistribution(root common.Hash) (*airdrop.Distribution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.distributionKey(root)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load Distribution: %w", err)
	}

	d, err := persistence.UnmarshalDistribution(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal Distribution: %w", err)
	}
	return d, nil
}

// ListDistributions returns all indexed distributions sorted by creation time
func (r *RedisPersistence) ListDistributions() ([]*airdrop.Distribution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	roots, err := r.client.SMembers(ctx, r.prefixKey(keySetDistributions)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read distribution index: %w", err)
	}

	distributions := make([]*airdrop.Distribution, 0, len(roots))
	if len(roots) == 0 {
		return distributions, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(roots))
	for i, root := range roots {
		cmds[i] = pipe.Get(ctx, r.distributionKey(common.HexToHash(root)))
	}
	// Exec returns redis.Nil when any GET misses; individual results are checked below
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to list Distributions: %w", err)
	}

	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err == redis.Nil {
			r.logger.Sugar().Warnw("Indexed distribution missing, skipping", "root", roots[i])
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read Distribution %s: %w", roots[i], err)
		}

		d, err := persistence.UnmarshalDistribution(data)
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal Distribution, skipping", "root", roots[i], "error", err)
			continue
		}
		distributions = append(distributions, d)
	}

	persistence.SortDistributions(distributions)
	return distributions, nil
}

// DeleteDistribution removes a distribution, its publication record and its index entry
func (r *RedisPersistence) DeleteDistribution(root common.Hash) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.distributionKey(root), r.publicationKey(root))
	pipe.SRem(ctx, r.prefixKey(keySetDistributions), root.Hex())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete Distribution: %w", err)
	}
	return nil
}

// SavePublication records a root publication
func (r *RedisPersistence) SavePublication(record *persistence.PublicationRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil PublicationRecord")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalPublicationRecord(record)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.publicationKey(record.Root), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save PublicationRecord: %w", err)
	}
	return nil
}

// LoadPublication retrieves the publication record for a root
func (r *RedisPersistence) LoadPublication(root common.Hash) (*persistence.PublicationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.publicationKey(root)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load PublicationRecord: %w", err)
	}

	return persistence.UnmarshalPublicationRecord(data)
}

// Close closes the Redis connection
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Infow("Redis persistence closed")
	return nil
}

// HealthCheck pings the Redis server
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
