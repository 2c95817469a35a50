package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/config"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/contractCaller"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/server"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	addrA = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	addrB = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	addrC = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"

	knownRoot = "0x07ac01459350113e5d31d299878127cab1a7f80d7c2cdc332f65f4b3dd897091"

	anvilKey        = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	contractAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"airdrop"}, args...))
	return out.String(), err
}

func writeAddressFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "addresses.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func buildExport(t *testing.T) string {
	t.Helper()
	addresses := writeAddressFile(t, strings.Join([]string{addrA, addrB, addrC}, "\n"))
	output := filepath.Join(t.TempDir(), "distribution.json")
	_, err := runApp(t, "build", "--addresses", addresses, "--start-token-id", "1", "--output", output)
	require.NoError(t, err)
	return output
}

func useMockContract(t *testing.T) *contractCaller.MockContractCaller {
	t.Helper()
	mock := contractCaller.NewMockContractCaller(common.HexToAddress(contractAddress))
	original := dialContract
	dialContract = func(ctx context.Context, cc *config.ChainConfig, l *zap.Logger) (contractCaller.IContractCaller, func(), error) {
		if cc.ChainID == 0 {
			cc.ChainID = config.ChainId_EthereumAnvil
		}
		return mock, func() {}, nil
	}
	t.Cleanup(func() { dialContract = original })
	return mock
}

func chainArgs() []string {
	return []string{
		"--chain-id", "31337",
		"--contract-address", contractAddress,
		"--private-key", anvilKey,
	}
}

func TestParseAddressList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "one per line",
			input:    addrA + "\n" + addrB + "\n",
			expected: []string{addrA, addrB},
		},
		{
			name:     "comma separated",
			input:    addrA + ", " + addrB + "," + addrC,
			expected: []string{addrA, addrB, addrC},
		},
		{
			name:     "comments and blank lines",
			input:    "# recipients\n\n" + addrA + "  # first\n\r\n" + addrB + "\r\n",
			expected: []string{addrA, addrB},
		},
		{
			name:     "json array",
			input:    `["` + addrA + `", "` + addrA + `"]`,
			expected: []string{addrA, addrA},
		},
		{
			name:     "empty",
			input:    "\n\n",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addresses, err := parseAddressList([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, addresses)
		})
	}

	_, err := parseAddressList([]byte(`["0x1",`))
	require.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	output := buildExport(t)

	d, err := readDistributionFile(output)
	require.NoError(t, err)
	assert.Equal(t, knownRoot, d.Root.Hex())
	require.Len(t, d.Claims, 3)
	assert.Equal(t, big.NewInt(1), d.Claims[0].TokenID)
	assert.Equal(t, big.NewInt(3), d.Claims[2].TokenID)
}

func TestBuildCommandToStdout(t *testing.T) {
	addresses := writeAddressFile(t, addrA+","+addrB+","+addrC)
	out, err := runApp(t, "build", "--addresses", addresses, "--start-token-id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, knownRoot)
}

func TestBuildCommandRejectsBadInput(t *testing.T) {
	_, err := runApp(t, "build", "--addresses", writeAddressFile(t, "# nobody\n"))
	require.Error(t, err)

	_, err = runApp(t, "build", "--addresses", writeAddressFile(t, addrA+"\n0x1234\n"))
	require.Error(t, err)

	_, err = runApp(t, "build", "--addresses", writeAddressFile(t, addrA), "--start-token-id", "-1")
	require.Error(t, err)

	_, err = runApp(t, "build", "--addresses", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestProofAndVerifyCommands(t *testing.T) {
	output := buildExport(t)

	out, err := runApp(t, "proof", "--distribution", output, "--address", addrB)
	require.NoError(t, err)

	var resp server.ClaimResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, knownRoot, resp.Root.Hex())
	require.Len(t, resp.Claims, 1)
	claim := resp.Claims[0]
	assert.Equal(t, big.NewInt(2), claim.TokenID)
	assert.Equal(t, addrB+"-2", claim.Key)

	out, err = runApp(t, "verify",
		"--address", addrB,
		"--token-id", "2",
		"--proof", claim.ProofString,
		"--root", knownRoot,
	)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	_, err = runApp(t, "verify",
		"--address", addrB,
		"--token-id", "3",
		"--proof", claim.ProofString,
		"--root", knownRoot,
	)
	require.Error(t, err)
	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode())

	_, err = runApp(t, "verify",
		"--address", addrB,
		"--token-id", "2",
		"--proof", "0x1234",
		"--root", knownRoot,
	)
	require.Error(t, err)
	assert.False(t, errors.As(err, &exitErr))
}

func TestProofCommandUnknownRecipient(t *testing.T) {
	output := buildExport(t)

	_, err := runApp(t, "proof", "--distribution", output, "--address", addrA, "--token-id", "2")
	require.Error(t, err)

	_, err = runApp(t, "proof", "--address", addrA)
	require.Error(t, err)
}

func TestBuildArchiveAndProofFromBadger(t *testing.T) {
	addresses := writeAddressFile(t, strings.Join([]string{addrA, addrB, addrC}, "\n"))
	dataPath := t.TempDir()

	_, err := runApp(t, "build",
		"--addresses", addresses,
		"--start-token-id", "1",
		"--output", filepath.Join(t.TempDir(), "out.json"),
		"--archive",
		"--persistence-type", "badger",
		"--data-path", dataPath,
	)
	require.NoError(t, err)

	out, err := runApp(t, "proof",
		"--root", knownRoot,
		"--address", addrC,
		"--persistence-type", "badger",
		"--data-path", dataPath,
	)
	require.NoError(t, err)

	var resp server.ClaimResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Claims, 1)
	assert.Equal(t, big.NewInt(3), resp.Claims[0].TokenID)
	assert.Len(t, resp.Claims[0].Proof, 1)
}

func TestArchiveRequiresDataPath(t *testing.T) {
	_, err := runApp(t, "build",
		"--addresses", writeAddressFile(t, addrA),
		"--output", filepath.Join(t.TempDir(), "out.json"),
		"--archive",
		"--persistence-type", "badger",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataPath")
}

func TestPublishAndClaimCommands(t *testing.T) {
	mock := useMockContract(t)
	output := buildExport(t)

	out, err := runApp(t, append([]string{"publish", "--distribution", output}, chainArgs()...)...)
	require.NoError(t, err)

	var record persistence.PublicationRecord
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, knownRoot, record.Root.Hex())
	assert.Equal(t, uint64(31337), record.ChainID)
	assert.Equal(t, uint64(1), record.BlockNumber)

	root, err := mock.GetMerkleRoot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, knownRoot, root.Hex())

	_, err = runApp(t, append([]string{"claim", "--distribution", output, "--address", addrC}, chainArgs()...)...)
	require.NoError(t, err)

	owner, ok := mock.OwnerOf(big.NewInt(3))
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress(addrC), owner)

	_, err = runApp(t, append([]string{"claim", "--distribution", output, "--address", addrC}, chainArgs()...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already claimed")
}

func TestClaimCommandWithExplicitProof(t *testing.T) {
	mock := useMockContract(t)
	output := buildExport(t)

	_, err := runApp(t, append([]string{"publish", "--root", knownRoot}, chainArgs()...)...)
	require.NoError(t, err)

	d, err := readDistributionFile(output)
	require.NoError(t, err)
	proof := d.Claims[0].Proof

	_, err = runApp(t, append([]string{"claim", "--address", addrA, "--token-id", "2", "--proof", airdrop.FormatProof(proof)}, chainArgs()...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid merkle proof")

	_, err = runApp(t, append([]string{"claim", "--address", addrA, "--token-id", "1", "--proof", airdrop.FormatProof(proof)}, chainArgs()...)...)
	require.NoError(t, err)

	_, ok := mock.OwnerOf(big.NewInt(1))
	assert.True(t, ok)
}

func TestVerifyAgainstOnChainRoot(t *testing.T) {
	mock := useMockContract(t)
	output := buildExport(t)

	d, err := readDistributionFile(output)
	require.NoError(t, err)
	_, err = mock.SetMerkleRoot(context.Background(), d.Root)
	require.NoError(t, err)

	out, err := runApp(t, "verify",
		"--address", addrA,
		"--token-id", "1",
		"--proof", airdrop.FormatProof(d.Claims[0].Proof),
		"--contract-address", contractAddress,
	)
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	_, err = runApp(t, "verify", "--address", addrA, "--token-id", "1")
	require.Error(t, err)
}

func TestPublishCommandValidation(t *testing.T) {
	useMockContract(t)

	_, err := runApp(t, append([]string{"publish"}, chainArgs()...)...)
	require.Error(t, err)

	_, err = runApp(t, "publish", "--root", knownRoot,
		"--chain-id", "5",
		"--contract-address", contractAddress,
		"--private-key", anvilKey,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported chain ID")

	_, err = runApp(t, "publish", "--root", knownRoot,
		"--chain-id", "31337",
		"--contract-address", contractAddress,
		"--private-key", "0x1234",
	)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "0x1234")
}

func TestParseServerConfig(t *testing.T) {
	var cfg *config.ServerConfig
	app := newApp()
	app.Writer = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}
	for _, cmd := range app.Commands {
		if cmd.Name == "serve" {
			cmd.Action = func(c *cli.Context) error {
				var err error
				cfg, err = parseServerConfig(c)
				return err
			}
		}
	}

	require.NoError(t, app.Run([]string{"airdrop", "serve", "--port", "9090", "--start-token-id", "100", "--rate-limit", "5"}))
	require.NotNil(t, cfg)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, 100, cfg.RateBurst)
	assert.Equal(t, big.NewInt(100), cfg.StartTokenID)
	assert.Equal(t, config.PersistenceType_Memory, cfg.Persistence.Type)
	require.NoError(t, cfg.Validate())
}

func TestProofCommandRejectsMalformedExport(t *testing.T) {
	exports := map[string]string{
		"null claim":       `{"claims":[null]}`,
		"missing token id": `{"claims":[{"address":"` + addrB + `","proof":[]}]}`,
	}
	for name, contents := range exports {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "distribution.json")
			require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

			_, err := runApp(t, "proof", "--distribution", path, "--address", addrB, "--token-id", "1")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to parse distribution")

			_, err = runApp(t, append([]string{"claim", "--distribution", path, "--address", addrB}, chainArgs()...)...)
			require.Error(t, err)
		})
	}
}

func TestDialOptionalContractChainID(t *testing.T) {
	useMockContract(t)

	dial := func(args ...string) (contractCaller.IContractCaller, config.ChainId) {
		var (
			contract contractCaller.IContractCaller
			chainID  config.ChainId
		)
		app := newApp()
		app.Writer = io.Discard
		app.ExitErrHandler = func(*cli.Context, error) {}
		for _, cmd := range app.Commands {
			if cmd.Name == "serve" {
				cmd.Action = func(c *cli.Context) error {
					var err error
					contract, chainID, _, err = dialOptionalContract(c, zap.NewNop())
					return err
				}
			}
		}
		require.NoError(t, app.Run(append([]string{"airdrop", "serve"}, args...)))
		return contract, chainID
	}

	contract, chainID := dial()
	assert.Nil(t, contract)
	assert.Equal(t, config.ChainId(0), chainID)

	contract, chainID = dial("--contract-address", contractAddress)
	require.NotNil(t, contract)
	assert.Equal(t, config.ChainId_EthereumAnvil, chainID)

	_, chainID = dial("--contract-address", contractAddress, "--chain-id", "11155111")
	assert.Equal(t, config.ChainId_EthereumSepolia, chainID)
}
