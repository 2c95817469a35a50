package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "airdrop",
		Usage: "Build, publish and verify Merkle-tree NFT airdrops",
		Description: `Builds a Merkle tree over (recipient, tokenId) pairs, publishes its root to the
airdrop contract and hands recipients the proofs they claim with.

Leaves are keccak256(abi.encodePacked(address, uint256 tokenId)); sibling pairs are
hashed in ascending byte order and an unpaired node is promoted to the next level.
Recipient i receives token startTokenId + i.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvAirdropVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Build a distribution from a recipient list and write its JSON export",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "addresses",
						Aliases:  []string{"a"},
						Usage:    "File of recipient addresses, one per line (commas and JSON arrays also accepted)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "start-token-id",
						Usage:   "Token id given to the first recipient",
						Value:   "0",
						EnvVars: []string{config.EnvAirdropStartTokenID},
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file for the distribution export (default: stdout)",
					},
					&cli.BoolFlag{
						Name:  "archive",
						Usage: "Also save the distribution to the configured persistence backend",
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Parallel workers used to self-verify every proof",
						Value:   4,
						EnvVars: []string{config.EnvAirdropVerifyWorkers},
					},
				}, persistenceFlags()...),
				Action: buildCommand,
			},
			{
				Name:  "proof",
				Usage: "Print a recipient's claim from a distribution export or the archive",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "distribution",
						Aliases: []string{"d"},
						Usage:   "Distribution export file",
					},
					&cli.StringFlag{
						Name:  "root",
						Usage: "Root of an archived distribution (used when --distribution is not set)",
					},
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Recipient address",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "token-id",
						Usage: "Token id (default: every claim of the address)",
					},
				}, persistenceFlags()...),
				Action: proofCommand,
			},
			{
				Name:  "verify",
				Usage: "Check a claim (address, token id, proof) against a root",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Recipient address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "token-id",
						Usage:    "Token id",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "proof",
						Usage: "Comma separated 32-byte hex proof elements",
					},
					&cli.StringFlag{
						Name:  "root",
						Usage: "Merkle root (default: read from the contract)",
					},
				}, optionalChainFlags()...),
				Action: verifyCommand,
			},
			{
				Name:  "publish",
				Usage: "Set a distribution's root on the airdrop contract",
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{
						Name:    "distribution",
						Aliases: []string{"d"},
						Usage:   "Distribution export file whose root to publish",
					},
					&cli.StringFlag{
						Name:  "root",
						Usage: "Root to publish (used when --distribution is not set)",
					},
					&cli.BoolFlag{
						Name:  "archive",
						Usage: "Record the publication in the configured persistence backend",
					},
				}, chainFlags()...), persistenceFlags()...),
				Action: publishCommand,
			},
			{
				Name:  "claim",
				Usage: "Submit a recipient's claim to the airdrop contract",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "distribution",
						Aliases: []string{"d"},
						Usage:   "Distribution export file to take the proof from",
					},
					&cli.StringFlag{
						Name:     "address",
						Usage:    "Recipient address the token is minted to",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "token-id",
						Usage: "Token id (required unless the address has exactly one claim)",
					},
					&cli.StringFlag{
						Name:  "proof",
						Usage: "Comma separated proof (used when --distribution is not set)",
					},
				}, chainFlags()...),
				Action: claimCommand,
			},
			{
				Name:  "serve",
				Usage: "Run the claim service",
				Flags: append(append([]cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   8080,
						Usage:   "HTTP server port",
						EnvVars: []string{config.EnvAirdropPort},
					},
					&cli.Float64Flag{
						Name:    "rate-limit",
						Value:   50,
						Usage:   "Requests per second allowed across all clients",
						EnvVars: []string{config.EnvAirdropRateLimit},
					},
					&cli.IntFlag{
						Name:    "rate-burst",
						Value:   100,
						Usage:   "Burst size of the rate limiter",
						EnvVars: []string{config.EnvAirdropRateBurst},
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Parallel workers used to self-verify built distributions",
						Value:   4,
						EnvVars: []string{config.EnvAirdropVerifyWorkers},
					},
					&cli.StringFlag{
						Name:    "start-token-id",
						Usage:   "Default token id of the first recipient",
						Value:   "0",
						EnvVars: []string{config.EnvAirdropStartTokenID},
					},
				}, persistenceFlags()...), optionalChainFlags()...),
				Action: serveCommand,
			},
		},
	}
}

func persistenceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "persistence-type",
			Usage:   "Distribution archive backend: memory, badger or redis",
			Value:   config.PersistenceType_Memory.String(),
			EnvVars: []string{config.EnvAirdropPersistenceType},
		},
		&cli.StringFlag{
			Name:    "data-path",
			Usage:   "Badger data directory",
			EnvVars: []string{config.EnvAirdropDataPath},
		},
		&cli.StringFlag{
			Name:    "redis-address",
			Usage:   "Redis server address (host:port)",
			EnvVars: []string{config.EnvAirdropRedisAddress},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			EnvVars: []string{config.EnvAirdropRedisPassword},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number",
			EnvVars: []string{config.EnvAirdropRedisDB},
		},
		&cli.StringFlag{
			Name:    "redis-key-prefix",
			Usage:   "Prefix prepended to every Redis key",
			EnvVars: []string{config.EnvAirdropRedisKeyPrefix},
		},
	}
}

func chainFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "rpc-url",
			Aliases: []string{"rpc"},
			Usage:   "Ethereum RPC endpoint URL",
			Value:   "http://localhost:8545",
			EnvVars: []string{config.EnvAirdropRPCURL},
		},
		&cli.Uint64Flag{
			Name:     "chain-id",
			Aliases:  []string{"chain"},
			Usage:    fmt.Sprintf("Ethereum chain ID: %s", config.GetSupportedChainIDsString()),
			EnvVars:  []string{config.EnvAirdropChainID},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "contract-address",
			Usage:    "Airdrop contract address",
			EnvVars:  []string{config.EnvAirdropContractAddress},
			Required: true,
		},
		&cli.StringFlag{
			Name:     "private-key",
			Usage:    "Hex private key that signs transactions",
			EnvVars:  []string{config.EnvAirdropPrivateKey},
			Required: true,
		},
	}
}

// optionalChainFlags binds a read-only contract when --contract-address is set
func optionalChainFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "rpc-url",
			Aliases: []string{"rpc"},
			Usage:   "Ethereum RPC endpoint URL",
			Value:   "http://localhost:8545",
			EnvVars: []string{config.EnvAirdropRPCURL},
		},
		&cli.Uint64Flag{
			Name:    "chain-id",
			Aliases: []string{"chain"},
			Usage:   "Expected chain ID of the RPC node (default: whatever the node reports)",
			EnvVars: []string{config.EnvAirdropChainID},
		},
		&cli.StringFlag{
			Name:    "contract-address",
			Usage:   "Airdrop contract address (optional)",
			EnvVars: []string{config.EnvAirdropContractAddress},
		},
		&cli.StringFlag{
			Name:    "private-key",
			Usage:   "Hex private key; enables publishing from the claim service",
			EnvVars: []string{config.EnvAirdropPrivateKey},
		},
	}
}
