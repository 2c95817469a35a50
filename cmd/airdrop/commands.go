package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/config"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/merkle"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/server"
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func buildCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	addresses, err := readAddressFile(c.String("addresses"))
	if err != nil {
		return err
	}
	startTokenID, err := airdrop.ParseTokenID(c.String("start-token-id"))
	if err != nil {
		return err
	}

	d, err := airdrop.BuildDistribution(addresses, startTokenID)
	if err != nil {
		return fmt.Errorf("failed to build distribution: %w", err)
	}

	failed, err := d.Verify(c.Context, c.Int("workers"))
	if err != nil {
		return fmt.Errorf("failed to verify distribution: %w", err)
	}
	if len(failed) > 0 {
		return fmt.Errorf("distribution failed self-verification for claims %v", failed)
	}

	l.Sugar().Infow("Built distribution",
		"id", d.ID,
		"root", d.Root.Hex(),
		"recipients", len(d.Claims),
		"startTokenId", startTokenID.String(),
	)

	if c.Bool("archive") {
		store, err := openStoreFromFlags(c, l)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.SaveDistribution(d); err != nil {
			return fmt.Errorf("failed to archive distribution: %w", err)
		}
		l.Sugar().Infow("Archived distribution", "root", d.Root.Hex(), "persistence", c.String("persistence-type"))
	}

	data, err := airdrop.MarshalDistribution(d)
	if err != nil {
		return err
	}
	return writeOutput(c, c.String("output"), data)
}

func proofCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	d, err := loadDistribution(c, l)
	if err != nil {
		return err
	}

	address, err := airdrop.ParseAddress(c.String("address"))
	if err != nil {
		return err
	}

	var claims []*airdrop.Claim
	if c.String("token-id") != "" {
		tokenID, err := airdrop.ParseTokenID(c.String("token-id"))
		if err != nil {
			return err
		}
		if claim := d.ClaimFor(address, tokenID); claim != nil {
			claims = append(claims, claim)
		}
	} else {
		claims = d.ClaimsForAddress(address)
	}
	if len(claims) == 0 {
		return cli.Exit(fmt.Sprintf("no claim for %s in distribution %s", address.Hex(), d.Root.Hex()), 1)
	}

	payloads := make([]*server.ClaimPayload, 0, len(claims))
	for _, claim := range claims {
		payloads = append(payloads, &server.ClaimPayload{
			Claim:       claim,
			Key:         claim.Key(),
			ProofString: airdrop.FormatProof(claim.Proof),
		})
	}
	return printJSON(c.App.Writer, &server.ClaimResponse{Root: d.Root, Claims: payloads})
}

// loadDistribution reads --distribution, or looks --root up in the archive.
func loadDistribution(c *cli.Context, l *zap.Logger) (*airdrop.Distribution, error) {
	if path := c.String("distribution"); path != "" {
		return readDistributionFile(path)
	}
	if c.String("root") == "" {
		return nil, fmt.Errorf("either --distribution or --root is required")
	}

	root, err := merkle.HashFromHex(c.String("root"))
	if err != nil {
		return nil, err
	}
	store, err := openStoreFromFlags(c, l)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	d, err := store.LoadDistribution(common.Hash(root))
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("distribution %s not found", common.Hash(root).Hex())
	}
	return d, nil
}

func verifyCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	tokenID, err := airdrop.ParseTokenID(c.String("token-id"))
	if err != nil {
		return err
	}
	leaf, err := airdrop.NewLeafInput(c.String("address"), tokenID)
	if err != nil {
		return err
	}
	proof, err := airdrop.ParseProof(c.String("proof"))
	if err != nil {
		return err
	}

	var root merkle.Hash
	if c.String("root") != "" {
		root, err = merkle.HashFromHex(c.String("root"))
		if err != nil {
			return err
		}
	} else {
		contract, _, closeClient, err := dialOptionalContract(c, l)
		if err != nil {
			return err
		}
		defer closeClient()
		if contract == nil {
			return fmt.Errorf("either --root or --contract-address is required")
		}
		onChain, err := contract.GetMerkleRoot(c.Context)
		if err != nil {
			return fmt.Errorf("failed to read on-chain root: %w", err)
		}
		root = merkle.Hash(onChain)
	}

	proofHashes := make([]merkle.Hash, len(proof))
	for i, h := range proof {
		proofHashes[i] = merkle.Hash(h)
	}
	valid := airdrop.VerifyLeafInput(leaf, proofHashes, root)

	l.Sugar().Debugw("Verified claim",
		"address", leaf.Address.Hex(),
		"tokenId", leaf.TokenID.String(),
		"leaf", common.Hash(airdrop.HashLeaf(leaf)).Hex(),
		"root", common.Hash(root).Hex(),
		"valid", valid,
	)

	if !valid {
		return cli.Exit("invalid", 1)
	}
	_, err = fmt.Fprintln(c.App.Writer, "valid")
	return err
}

func publishCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	var root common.Hash
	switch {
	case c.String("distribution") != "":
		d, err := readDistributionFile(c.String("distribution"))
		if err != nil {
			return err
		}
		root = d.Root
	case c.String("root") != "":
		h, err := merkle.HashFromHex(c.String("root"))
		if err != nil {
			return err
		}
		root = common.Hash(h)
	default:
		return fmt.Errorf("either --distribution or --root is required")
	}

	cc, err := parseChainConfig(c)
	if err != nil {
		return err
	}

	var store persistence.IDistributionPersistence
	if c.Bool("archive") {
		store, err = openStoreFromFlags(c, l)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	contract, closeClient, err := dialContract(c.Context, cc, l)
	if err != nil {
		return err
	}
	defer closeClient()

	l.Sugar().Infow("Publishing merkle root",
		"root", root.Hex(),
		"contract", contract.ContractAddress().Hex(),
		"chain", cc.ChainName,
	)
	receipt, err := contract.SetMerkleRoot(c.Context, root)
	if err != nil {
		return fmt.Errorf("failed to publish root: %w", err)
	}

	record := &persistence.PublicationRecord{
		Root:            root,
		ContractAddress: contract.ContractAddress(),
		ChainID:         uint64(cc.ChainID),
		TxHash:          receipt.TxHash,
		PublishedAt:     time.Now().Unix(),
	}
	if receipt.BlockNumber != nil {
		record.BlockNumber = receipt.BlockNumber.Uint64()
	}
	l.Sugar().Infow("Published merkle root",
		"root", root.Hex(),
		"txHash", record.TxHash.Hex(),
		"blockNumber", record.BlockNumber,
	)

	if store != nil {
		if err := store.SavePublication(record); err != nil {
			return fmt.Errorf("failed to record publication: %w", err)
		}
	}

	return printJSON(c.App.Writer, record)
}

func claimCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	owner, err := airdrop.ParseAddress(c.String("address"))
	if err != nil {
		return err
	}

	var (
		tokenID *big.Int
		proof   []common.Hash
	)
	if c.String("token-id") != "" {
		if tokenID, err = airdrop.ParseTokenID(c.String("token-id")); err != nil {
			return err
		}
	}

	if path := c.String("distribution"); path != "" {
		d, err := readDistributionFile(path)
		if err != nil {
			return err
		}
		var claim *airdrop.Claim
		if tokenID != nil {
			claim = d.ClaimFor(owner, tokenID)
		} else if claims := d.ClaimsForAddress(owner); len(claims) == 1 {
			claim = claims[0]
		} else if len(claims) > 1 {
			return fmt.Errorf("%s has %d claims; pass --token-id", owner.Hex(), len(claims))
		}
		if claim == nil {
			return fmt.Errorf("no claim for %s in distribution %s", owner.Hex(), d.Root.Hex())
		}
		tokenID, proof = claim.TokenID, claim.Proof
	} else {
		if tokenID == nil {
			return fmt.Errorf("--token-id is required without --distribution")
		}
		if proof, err = airdrop.ParseProof(c.String("proof")); err != nil {
			return err
		}
	}

	cc, err := parseChainConfig(c)
	if err != nil {
		return err
	}
	contract, closeClient, err := dialContract(c.Context, cc, l)
	if err != nil {
		return err
	}
	defer closeClient()

	receipt, err := contract.ClaimNFT(c.Context, proof, tokenID, owner)
	if err != nil {
		return fmt.Errorf("failed to claim token %s: %w", tokenID.String(), err)
	}
	l.Sugar().Infow("Claimed token",
		"owner", owner.Hex(),
		"tokenId", tokenID.String(),
		"txHash", receipt.TxHash.Hex(),
	)

	_, err = fmt.Fprintln(c.App.Writer, receipt.TxHash.Hex())
	return err
}

func serveCommand(c *cli.Context) error {
	l, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	cfg, err := parseServerConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := openStore(&cfg.Persistence, l)
	if err != nil {
		return fmt.Errorf("failed to open %s persistence: %w", cfg.Persistence.Type, err)
	}
	defer func() { _ = store.Close() }()

	contract, chainID, closeClient, err := dialOptionalContract(c, l)
	if err != nil {
		return err
	}
	defer closeClient()
	cfg.ChainID = chainID

	srv := server.NewServer(cfg, store, contract, l)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	l.Sugar().Infow("Claim service started",
		"port", cfg.Port,
		"persistence", cfg.Persistence.Type,
		"contractConfigured", contract != nil,
		"chainId", cfg.ChainID,
	)
	l.Sugar().Infow("Available endpoints",
		"build", "POST /distributions",
		"list", "GET /distributions",
		"publish", "POST /publish",
		"distribution", "GET /distribution?root=",
		"claim", "GET /claim?root=&address=&tokenId=",
		"verify", "POST /verify",
		"root", "GET /root",
		"health", "GET /health",
	)
	l.Sugar().Infow("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	l.Sugar().Infow("Shutting down claim service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

func parseServerConfig(c *cli.Context) (*config.ServerConfig, error) {
	pc, err := parsePersistenceConfig(c)
	if err != nil {
		return nil, err
	}
	startTokenID, err := airdrop.ParseTokenID(c.String("start-token-id"))
	if err != nil {
		return nil, err
	}
	return &config.ServerConfig{
		Port:          c.Int("port"),
		RateLimit:     c.Float64("rate-limit"),
		RateBurst:     c.Int("rate-burst"),
		VerifyWorkers: c.Int("workers"),
		StartTokenID:  startTokenID,
		Persistence:   *pc,
		Debug:         c.Bool("verbose"),
	}, nil
}
