package claimclient

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/config"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/contractCaller"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence/memory"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/server"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	addrA = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	addrB = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	addrC = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"

	knownRoot = "0x07ac01459350113e5d31d299878127cab1a7f80d7c2cdc332f65f4b3dd897091"
)

func newTestClient(t *testing.T) (*Client, *contractCaller.MockContractCaller) {
	t.Helper()
	logger := zap.NewNop()
	contract := contractCaller.NewMockContractCaller(common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"))
	srv := server.NewServer(&config.ServerConfig{
		Port:          8080,
		RateLimit:     1000,
		RateBurst:     1000,
		VerifyWorkers: 2,
		StartTokenID:  big.NewInt(1),
		Persistence:   config.PersistenceConfig{Type: config.PersistenceType_Memory},
	}, memory.NewMemoryPersistence(logger), contract, logger)

	ts := httptest.NewServer(srv.GetHandler())
	t.Cleanup(ts.Close)

	client, err := NewClient(&ClientConfig{BaseURL: ts.URL + "/", Logger: logger, HTTPClient: ts.Client()})
	require.NoError(t, err)
	return client, contract
}

func TestNewClient_ValidationErrors(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name        string
		config      *ClientConfig
		expectedErr string
	}{
		{
			name:        "nil config",
			config:      nil,
			expectedErr: "config cannot be nil",
		},
		{
			name:        "empty base URL",
			config:      &ClientConfig{Logger: logger},
			expectedErr: "base URL is required",
		},
		{
			name:        "relative base URL",
			config:      &ClientConfig{BaseURL: "localhost", Logger: logger},
			expectedErr: "invalid base URL",
		},
		{
			name:        "nil logger",
			config:      &ClientConfig{BaseURL: "http://localhost:8080"},
			expectedErr: "logger is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			assert.Nil(t, client)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestClient_BuildAndFetch(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	summary, err := client.BuildDistribution(ctx, []string{addrA, addrB, addrC}, nil)
	require.NoError(t, err)
	assert.Equal(t, knownRoot, summary.Root.Hex())
	assert.Equal(t, 3, summary.Recipients)

	summaries, err := client.ListDistributions(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].Publication)

	d, err := client.GetDistribution(ctx, summary.Root)
	require.NoError(t, err)
	assert.Len(t, d.Claims, 3)

	claims, err := client.GetClaims(ctx, summary.Root, common.HexToAddress(addrB), nil)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, big.NewInt(2), claims[0].TokenID)

	_, err = client.GetClaims(ctx, summary.Root, common.HexToAddress(addrB), big.NewInt(3))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClient_BuildRejectsEmptyList(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.BuildDistribution(context.Background(), nil, big.NewInt(0))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)
}

func TestClient_PublishAndVerify(t *testing.T) {
	client, contract := newTestClient(t)
	ctx := context.Background()

	summary, err := client.BuildDistribution(ctx, []string{addrA, addrB, addrC}, big.NewInt(1))
	require.NoError(t, err)

	record, err := client.Publish(ctx, summary.Root)
	require.NoError(t, err)
	assert.Equal(t, summary.Root, record.Root)

	onChain, err := client.GetRoot(ctx)
	require.NoError(t, err)
	assert.Equal(t, summary.Root, onChain.Root)
	assert.True(t, onChain.Archived)

	claims, err := client.GetClaims(ctx, summary.Root, common.HexToAddress(addrA), big.NewInt(1))
	require.NoError(t, err)

	resp, err := client.Verify(ctx, common.HexToAddress(addrA), big.NewInt(1), claims[0].Proof, nil)
	require.NoError(t, err)
	assert.True(t, resp.Valid)

	resp, err = client.Verify(ctx, common.HexToAddress(addrA), big.NewInt(2), claims[0].Proof, &summary.Root)
	require.NoError(t, err)
	assert.False(t, resp.Valid)

	_, err = contract.ClaimNFT(ctx, claims[0].Proof, claims[0].TokenID, claims[0].Address)
	require.NoError(t, err)

	summaries, err := client.ListDistributions(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.NotNil(t, summaries[0].Publication)
	assert.Equal(t, record.TxHash, summaries[0].Publication.TxHash)
}

func TestClient_RejectsTamperedClaims(t *testing.T) {
	d, err := airdrop.BuildDistribution([]string{addrA, addrB, addrC}, big.NewInt(1))
	require.NoError(t, err)
	claim := d.Claims[0]
	claim.Proof = []common.Hash{claim.Proof[1], claim.Proof[0]}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/claim":
			_ = json.NewEncoder(w).Encode(&server.ClaimResponse{
				Root:   d.Root,
				Claims: []*server.ClaimPayload{{Claim: claim, Key: claim.Key()}},
			})
		case "/distribution":
			_ = json.NewEncoder(w).Encode(d)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client, err := NewClient(&ClientConfig{BaseURL: ts.URL, Logger: zap.NewNop()})
	require.NoError(t, err)

	_, err = client.GetClaims(context.Background(), d.Root, claim.Address, claim.TokenID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not verify")

	_, err = client.GetDistribution(context.Background(), d.Root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "do not verify")

	_, err = client.GetDistribution(context.Background(), common.HexToHash(knownRoot[:len(knownRoot)-1]+"0"))
	require.Error(t, err)
}

func TestClient_RejectsClaimForOtherToken(t *testing.T) {
	d, err := airdrop.BuildDistribution([]string{addrA, addrB, addrC, addrA}, big.NewInt(1))
	require.NoError(t, err)
	other := d.Claims[3]
	require.True(t, airdrop.VerifyClaim(other, d.Root))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&server.ClaimResponse{
			Root:   d.Root,
			Claims: []*server.ClaimPayload{{Claim: other, Key: other.Key()}},
		})
	}))
	defer ts.Close()

	client, err := NewClient(&ClientConfig{BaseURL: ts.URL, Logger: zap.NewNop()})
	require.NoError(t, err)

	_, err = client.GetClaims(context.Background(), d.Root, common.HexToAddress(addrA), big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asked for token 1")

	claims, err := client.GetClaims(context.Background(), d.Root, common.HexToAddress(addrA), big.NewInt(4))
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, big.NewInt(4), claims[0].TokenID)
}

func TestClient_Health(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Health(context.Background()))
}
