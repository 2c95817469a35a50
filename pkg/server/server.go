package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/config"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/contractCaller"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/persistence"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

/*
Server is the pull-based claim service in front of the distribution archive.

Operator endpoints:
  POST /distributions        build, self-verify and archive a distribution
                             { addresses, startTokenId }
  GET  /distributions        list archived distributions (summaries)
  POST /publish              write an archived root to the airdrop contract
                             { root }

Recipient endpoints:
  GET  /distribution?root=   full export: every claim and proof
  GET  /claim?root=&address=[&tokenId=]
                             one recipient's leaf and proof(s)
  POST /verify               { address, tokenId, proof, root } -> { valid }
                             root defaults to the on-chain root when a
                             contract is configured
  GET  /root                 the root currently stored on chain

  GET  /health               archive health

Malformed input is a 400; a proof that does not verify is a 200 with
valid=false. All endpoints share one token bucket; excess requests get 429.
*/
type Server struct {
	cfg        *config.ServerConfig
	store      persistence.IDistributionPersistence
	contract   contractCaller.IContractCaller
	logger     *zap.Logger
	limiter    *rate.Limiter
	httpServer *http.Server
}

// NewServer creates a new server instance. contract may be nil, in which case
// /publish and /root report the service as unavailable.
func NewServer(
	cfg *config.ServerConfig,
	store persistence.IDistributionPersistence,
	contract contractCaller.IContractCaller,
	logger *zap.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		contract: contract,
		logger:   logger,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}

	mux := http.NewServeMux()

	// Operator endpoints
	mux.HandleFunc("/distributions", s.handleDistributions)
	mux.HandleFunc("/publish", s.handlePublish)

	// Recipient endpoints
	mux.HandleFunc("/distribution", s.handleGetDistribution)
	mux.HandleFunc("/claim", s.handleGetClaim)
	mux.HandleFunc("/verify", s.handleVerify)
	mux.HandleFunc("/root", s.handleGetRoot)

	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.rateLimit(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// rateLimit rejects requests once the shared token bucket is empty
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.logger.Sugar().Debugw("Rate limit exceeded", "path", r.URL.Path, "remote", r.RemoteAddr)
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go func() {
		s.logger.Sugar().Infow("Starting claim service", "port", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Sugar().Errorw("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// GetHandler returns the HTTP handler (for testing)
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}
