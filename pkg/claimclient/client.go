package claimclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/server"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ClientConfig holds the configuration for the claim service client
type ClientConfig struct {
	BaseURL    string
	Logger     *zap.Logger
	HTTPClient *http.Client
}

// Client talks to a claim service. Claims it returns have been checked against
// the root locally, so a misbehaving service cannot hand out a bad proof.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// APIError is a non-2xx response from the claim service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("claim service returned %d: %s", e.StatusCode, e.Message)
}

// NewClient creates a new claim service client
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if u, err := url.Parse(config.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %s", config.BaseURL)
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     config.Logger,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to contact claim service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp server.ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		c.logger.Sugar().Debugw("Claim service returned error",
			"method", method,
			"path", path,
			"status_code", resp.StatusCode,
			"error", apiErr.Message,
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// BuildDistribution asks the service to build and archive a distribution.
// A nil startTokenID uses the service default.
func (c *Client) BuildDistribution(ctx context.Context, addresses []string, startTokenID *big.Int) (*server.DistributionSummary, error) {
	req := &server.BuildDistributionRequest{Addresses: addresses}
	if startTokenID != nil {
		req.StartTokenID = startTokenID.String()
	}

	var summary server.DistributionSummary
	if err := c.do(ctx, http.MethodPost, "/distributions", nil, req, &summary); err != nil {
		return nil, err
	}
	c.logger.Sugar().Infow("Built distribution",
		"root", summary.Root.Hex(),
		"recipients", summary.Recipients,
	)
	return &summary, nil
}

func (c *Client) ListDistributions(ctx context.Context) ([]*server.DistributionSummary, error) {
	var summaries []*server.DistributionSummary
	if err := c.do(ctx, http.MethodGet, "/distributions", nil, nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetDistribution downloads a full export and checks that every claim proves
// into its root.
func (c *Client) GetDistribution(ctx context.Context, root common.Hash) (*airdrop.Distribution, error) {
	var d airdrop.Distribution
	if err := c.do(ctx, http.MethodGet, "/distribution", url.Values{"root": {root.Hex()}}, nil, &d); err != nil {
		return nil, err
	}
	if d.Root != root {
		return nil, fmt.Errorf("service returned distribution %s for root %s", d.Root.Hex(), root.Hex())
	}

	failed, err := d.Verify(ctx, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to verify distribution: %w", err)
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("distribution %s has %d claims that do not verify", root.Hex(), len(failed))
	}
	return &d, nil
}

// GetClaims fetches an address's claims under root. A nil tokenID returns
// every claim of the address. Claims whose proof does not verify are an error.
func (c *Client) GetClaims(ctx context.Context, root common.Hash, address common.Address, tokenID *big.Int) ([]*airdrop.Claim, error) {
	query := url.Values{
		"root":    {root.Hex()},
		"address": {address.Hex()},
	}
	if tokenID != nil {
		query.Set("tokenId", tokenID.String())
	}

	var resp server.ClaimResponse
	if err := c.do(ctx, http.MethodGet, "/claim", query, nil, &resp); err != nil {
		return nil, err
	}

	claims := make([]*airdrop.Claim, 0, len(resp.Claims))
	for _, payload := range resp.Claims {
		if payload == nil || payload.Claim == nil {
			continue
		}
		claim := payload.Claim
		if claim.Address != address {
			return nil, fmt.Errorf("service returned a claim for %s, asked for %s", claim.Address.Hex(), address.Hex())
		}
		if tokenID != nil && (claim.TokenID == nil || claim.TokenID.Cmp(tokenID) != 0) {
			return nil, fmt.Errorf("service returned token %v for %s, asked for token %s", claim.TokenID, address.Hex(), tokenID.String())
		}
		if !airdrop.VerifyClaim(claim, root) {
			return nil, fmt.Errorf("claim %s does not verify against root %s", claim.Key(), root.Hex())
		}
		claims = append(claims, claim)
	}
	if len(claims) == 0 {
		return nil, fmt.Errorf("no claims returned for %s", address.Hex())
	}
	return claims, nil
}

// Verify asks the service to check a claim. An empty root means the service
// checks against the contract's current root.
func (c *Client) Verify(ctx context.Context, address common.Address, tokenID *big.Int, proof []common.Hash, root *common.Hash) (*server.VerifyResponse, error) {
	req := &server.VerifyRequest{
		Address: address.Hex(),
		TokenID: tokenID.String(),
		Proof:   make([]string, len(proof)),
	}
	for i, p := range proof {
		req.Proof[i] = p.Hex()
	}
	if root != nil {
		req.Root = root.Hex()
	}

	var resp server.VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/verify", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Publish asks the service to write an archived root to the contract
func (c *Client) Publish(ctx context.Context, root common.Hash) (*persistence.PublicationRecord, error) {
	var record persistence.PublicationRecord
	if err := c.do(ctx, http.MethodPost, "/publish", nil, &server.PublishRequest{Root: root.Hex()}, &record); err != nil {
		return nil, err
	}
	c.logger.Sugar().Infow("Published merkle root",
		"root", record.Root.Hex(),
		"txHash", record.TxHash.Hex(),
	)
	return &record, nil
}

func (c *Client) GetRoot(ctx context.Context) (*server.RootResponse, error) {
	var resp server.RootResponse
	if err := c.do(ctx, http.MethodGet, "/root", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
