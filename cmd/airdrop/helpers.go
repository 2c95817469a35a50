package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/config"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/contractCaller"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/contractCaller/caller"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/logger"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence/badger"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence/memory"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence/redis"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/transactionSigner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func newLogger(c *cli.Context) (*zap.Logger, error) {
	return logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
}

// parseAddressList accepts a JSON array of addresses or free text with one
// address per line and/or comma separated. Blank lines and '#' comments are
// skipped.
func parseAddressList(data []byte) ([]string, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var addresses []string
		if err := json.Unmarshal([]byte(trimmed), &addresses); err != nil {
			return nil, fmt.Errorf("failed to parse address list as JSON: %w", err)
		}
		return addresses, nil
	}

	var addresses []string
	for _, line := range strings.Split(trimmed, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Split(line, ",") {
			if field = strings.TrimSpace(field); field != "" {
				addresses = append(addresses, field)
			}
		}
	}
	return addresses, nil
}

func readAddressFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read address file: %w", err)
	}
	return parseAddressList(data)
}

func readDistributionFile(path string) (*airdrop.Distribution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read distribution: %w", err)
	}
	d, err := airdrop.UnmarshalDistribution(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse distribution %s: %w", path, err)
	}
	return d, nil
}

func writeOutput(c *cli.Context, path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(c.App.Writer, string(data))
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func parsePersistenceConfig(c *cli.Context) (*config.PersistenceConfig, error) {
	persistenceType, err := config.ParsePersistenceType(c.String("persistence-type"))
	if err != nil {
		return nil, err
	}
	pc := &config.PersistenceConfig{
		Type:     persistenceType,
		DataPath: c.String("data-path"),
	}
	if persistenceType == config.PersistenceType_Redis {
		pc.Redis = &config.RedisConfig{
			Address:   c.String("redis-address"),
			Password:  c.String("redis-password"),
			DB:        c.Int("redis-db"),
			KeyPrefix: c.String("redis-key-prefix"),
		}
	}
	if errs := pc.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid persistence configuration: %w", errs.ToAggregate())
	}
	return pc, nil
}

func openStore(pc *config.PersistenceConfig, l *zap.Logger) (persistence.IDistributionPersistence, error) {
	switch pc.Type {
	case config.PersistenceType_Badger:
		return badger.NewBadgerPersistence(pc.DataPath, l)
	case config.PersistenceType_Redis:
		return redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   pc.Redis.Address,
			Password:  pc.Redis.Password,
			DB:        pc.Redis.DB,
			KeyPrefix: pc.Redis.KeyPrefix,
		}, l)
	default:
		return memory.NewMemoryPersistence(l), nil
	}
}

func openStoreFromFlags(c *cli.Context, l *zap.Logger) (persistence.IDistributionPersistence, error) {
	pc, err := parsePersistenceConfig(c)
	if err != nil {
		return nil, err
	}
	if pc.Type == config.PersistenceType_Memory {
		l.Sugar().Warnw("Using in-memory persistence; nothing is kept after exit")
	}
	store, err := openStore(pc, l)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s persistence: %w", pc.Type, err)
	}
	return store, nil
}

func parseChainConfig(c *cli.Context) (*config.ChainConfig, error) {
	cc := &config.ChainConfig{
		RpcUrl:          c.String("rpc-url"),
		ChainID:         config.ChainId(c.Uint64("chain-id")),
		ContractAddress: c.String("contract-address"),
		PrivateKey:      c.String("private-key"),
	}
	if err := cc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cc, nil
}

// dialContract connects to the airdrop contract. Without a private key the
// caller is read-only. A non-zero ChainID must match the node's; a zero one
// is filled in from the node.
var dialContract = func(ctx context.Context, cc *config.ChainConfig, l *zap.Logger) (contractCaller.IContractCaller, func(), error) {
	client, err := ethclient.DialContext(ctx, cc.RpcUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", cc.RpcUrl, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if cc.ChainID != 0 && chainID.Uint64() != uint64(cc.ChainID) {
		client.Close()
		return nil, nil, fmt.Errorf("rpc node is on chain %d, expected %d", chainID.Uint64(), cc.ChainID)
	}
	cc.ChainID = config.ChainId(chainID.Uint64())

	var signer transactionSigner.ITransactionSigner
	if cc.PrivateKey != "" {
		signer, err = transactionSigner.NewTransactionSigner(&transactionSigner.SignerConfig{PrivateKey: cc.PrivateKey}, client, l)
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to create transaction signer: %w", err)
		}
	}

	contract, err := caller.NewContractCaller(common.HexToAddress(cc.ContractAddress), client, signer, l)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return contract, client.Close, nil
}

// dialOptionalContract returns a nil caller when no contract address is set.
// The returned chain id is the contract's network.
func dialOptionalContract(c *cli.Context, l *zap.Logger) (contractCaller.IContractCaller, config.ChainId, func(), error) {
	address := c.String("contract-address")
	if address == "" {
		return nil, 0, func() {}, nil
	}
	if !common.IsHexAddress(address) {
		return nil, 0, nil, fmt.Errorf("invalid contract address: %s", address)
	}
	cc := &config.ChainConfig{
		RpcUrl:          c.String("rpc-url"),
		ChainID:         config.ChainId(c.Uint64("chain-id")),
		ContractAddress: address,
		PrivateKey:      c.String("private-key"),
	}
	contract, closeClient, err := dialContract(c.Context, cc, l)
	if err != nil {
		return nil, 0, nil, err
	}
	return contract, cc.ChainID, closeClient, nil
}
