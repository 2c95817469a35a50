package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/merkle"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
)

const maxRequestBodyBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &ErrorResponse{Error: msg})
}

// writeInputError maps core errors to a status: malformed input and empty
// recipient lists are the client's fault, anything else is ours
func (s *Server) writeInputError(w http.ResponseWriter, err error) {
	if merkle.IsMalformedInput(err) || errors.Is(err, merkle.ErrEmptyInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Sugar().Errorw("Request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to parse request: %w", err)
	}
	return nil
}

func parseRootParam(raw string) (common.Hash, error) {
	if raw == "" {
		return common.Hash{}, merkle.NewMalformedInputError("root", "missing")
	}
	h, err := merkle.HashFromHex(raw)
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(h), nil
}

// loadDistribution resolves the root query parameter to an archived distribution,
// writing the error response itself when it returns nil
func (s *Server) loadDistribution(w http.ResponseWriter, r *http.Request) *airdrop.Distribution {
	root, err := parseRootParam(r.URL.Query().Get("root"))
	if err != nil {
		s.writeInputError(w, err)
		return nil
	}

	d, err := s.store.LoadDistribution(root)
	if err != nil {
		s.logger.Sugar().Errorw("Failed to load distribution", "root", root.Hex(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load distribution")
		return nil
	}
	if d == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no distribution with root %s", root.Hex()))
		return nil
	}
	return d
}

func (s *Server) handleDistributions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleBuildDistribution(w, r)
	case http.MethodGet:
		s.handleListDistributions(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleBuildDistribution(w http.ResponseWriter, r *http.Request) {
	var req BuildDistributionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	startTokenID := s.cfg.StartTokenID
	if req.StartTokenID != "" {
		parsed, err := airdrop.ParseTokenID(req.StartTokenID)
		if err != nil {
			s.writeInputError(w, err)
			return
		}
		startTokenID = parsed
	}
	if startTokenID == nil {
		startTokenID = big.NewInt(0)
	}

	d, err := airdrop.BuildDistribution(req.Addresses, startTokenID)
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	failed, err := d.Verify(r.Context(), s.cfg.VerifyWorkers)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if len(failed) > 0 {
		s.logger.Sugar().Errorw("Built distribution failed self-verification", "root", d.Root.Hex(), "failed", failed)
		writeError(w, http.StatusInternalServerError, "distribution failed self-verification")
		return
	}

	if err := s.store.SaveDistribution(d); err != nil {
		s.logger.Sugar().Errorw("Failed to archive distribution", "root", d.Root.Hex(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to archive distribution")
		return
	}

	s.logger.Sugar().Infow("Built distribution",
		"id", d.ID,
		"root", d.Root.Hex(),
		"recipients", len(d.Claims),
		"startTokenId", startTokenID.String(),
	)

	writeJSON(w, http.StatusCreated, summarize(d, nil))
}

func (s *Server) handleListDistributions(w http.ResponseWriter, r *http.Request) {
	distributions, err := s.store.ListDistributions()
	if err != nil {
		s.logger.Sugar().Errorw("Failed to list distributions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list distributions")
		return
	}

	summaries := make([]*DistributionSummary, 0, len(distributions))
	for _, d := range distributions {
		publication, err := s.store.LoadPublication(d.Root)
		if err != nil {
			s.logger.Sugar().Warnw("Failed to load publication record", "root", d.Root.Hex(), "error", err)
		}
		summaries = append(summaries, summarize(d, publication))
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetDistribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	d := s.loadDistribution(w, r)
	if d == nil {
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()
	address, err := airdrop.ParseAddress(query.Get("address"))
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	var tokenID *big.Int
	if raw := query.Get("tokenId"); raw != "" {
		tokenID, err = airdrop.ParseTokenID(raw)
		if err != nil {
			s.writeInputError(w, err)
			return
		}
	}

	d := s.loadDistribution(w, r)
	if d == nil {
		return
	}

	var claims []*airdrop.Claim
	if tokenID != nil {
		if c := d.ClaimFor(address, tokenID); c != nil {
			claims = []*airdrop.Claim{c}
		}
	} else {
		claims = d.ClaimsForAddress(address)
	}
	if len(claims) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s has no claim in distribution %s", address.Hex(), d.Root.Hex()))
		return
	}

	writeJSON(w, http.StatusOK, &ClaimResponse{
		Root: d.Root,
		Claims: util.Map(claims, func(c *airdrop.Claim, _ uint64) *ClaimPayload {
			return &ClaimPayload{Claim: c, Key: c.Key(), ProofString: airdrop.FormatProof(c.Proof)}
		}),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req VerifyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokenID, err := airdrop.ParseTokenID(req.TokenID)
	if err != nil {
		s.writeInputError(w, err)
		return
	}
	leaf, err := airdrop.NewLeafInput(req.Address, tokenID)
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	proof := make([]merkle.Hash, len(req.Proof))
	for i, p := range req.Proof {
		h, err := merkle.HashFromHex(p)
		if err != nil {
			s.writeInputError(w, merkle.NewMalformedInputError("proof", "element %d: %v", i, err))
			return
		}
		proof[i] = h
	}

	var root common.Hash
	switch {
	case req.Root != "":
		root, err = parseRootParam(req.Root)
		if err != nil {
			s.writeInputError(w, err)
			return
		}
	case s.contract != nil:
		root, err = s.contract.GetMerkleRoot(r.Context())
		if err != nil {
			s.logger.Sugar().Errorw("Failed to read on-chain root", "error", err)
			writeError(w, http.StatusBadGateway, "failed to read on-chain root")
			return
		}
	default:
		s.writeInputError(w, merkle.NewMalformedInputError("root", "missing"))
		return
	}

	valid := airdrop.VerifyLeafInput(leaf, proof, merkle.Hash(root))
	s.logger.Sugar().Debugw("Verified claim",
		"address", leaf.Address.Hex(),
		"tokenId", leaf.TokenID.String(),
		"root", root.Hex(),
		"valid", valid,
	)

	writeJSON(w, http.StatusOK, &VerifyResponse{
		Valid: valid,
		Root:  root,
		Leaf:  common.Hash(airdrop.HashLeaf(leaf)),
	})
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.contract == nil {
		writeError(w, http.StatusServiceUnavailable, "no airdrop contract configured")
		return
	}

	var req PublishRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	root, err := parseRootParam(req.Root)
	if err != nil {
		s.writeInputError(w, err)
		return
	}

	// only archived roots can be published
	d, err := s.store.LoadDistribution(root)
	if err != nil {
		s.logger.Sugar().Errorw("Failed to load distribution", "root", root.Hex(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load distribution")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no distribution with root %s", root.Hex()))
		return
	}

	receipt, err := s.contract.SetMerkleRoot(r.Context(), root)
	if err != nil {
		s.logger.Sugar().Errorw("Failed to publish root", "root", root.Hex(), "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to publish root: %v", err))
		return
	}

	record := &persistence.PublicationRecord{
		Root:            root,
		ContractAddress: s.contract.ContractAddress(),
		ChainID:         uint64(s.cfg.ChainID),
		TxHash:          receipt.TxHash,
		PublishedAt:     time.Now().Unix(),
	}
	if receipt.BlockNumber != nil {
		record.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if err := s.store.SavePublication(record); err != nil {
		// the root is already on chain, so this is not a request failure
		s.logger.Sugar().Errorw("Failed to record publication", "root", root.Hex(), "error", err)
	}

	s.logger.Sugar().Infow("Published merkle root",
		"root", root.Hex(),
		"txHash", receipt.TxHash.Hex(),
		"blockNumber", record.BlockNumber,
	)

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleGetRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.contract == nil {
		writeError(w, http.StatusServiceUnavailable, "no airdrop contract configured")
		return
	}

	root, err := s.contract.GetMerkleRoot(r.Context())
	if err != nil {
		s.logger.Sugar().Errorw("Failed to read on-chain root", "error", err)
		writeError(w, http.StatusBadGateway, "failed to read on-chain root")
		return
	}

	d, err := s.store.LoadDistribution(root)
	if err != nil {
		s.logger.Sugar().Warnw("Failed to check archive for on-chain root", "root", root.Hex(), "error", err)
	}

	writeJSON(w, http.StatusOK, &RootResponse{
		ContractAddress: s.contract.ContractAddress(),
		Root:            root,
		Archived:        d != nil,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.HealthCheck(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
