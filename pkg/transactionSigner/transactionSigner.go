package transactionSigner

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// ITransactionSigner owns the key that writes merkle roots and claims. Bindings
// assemble unsigned transactions with GetTransactOpts; the signer prices,
// signs, submits and waits for them.
type ITransactionSigner interface {
	GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error)

	// SignAndSendTransaction blocks until the receipt is available and fails
	// on a reverted transaction
	SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

	GetFromAddress() common.Address

	EstimateGasPriceAndLimit(ctx context.Context, tx *types.Transaction) (*big.Int, uint64, error)
}

// EthBackend is the subset of an Ethereum client the signer and contract
// bindings need. *ethclient.Client satisfies it.
type EthBackend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// SignerConfig selects the signing key
type SignerConfig struct {
	PrivateKey string `json:"privateKey" yaml:"privateKey"`
}

func NewTransactionSigner(cfg *SignerConfig, ethClient EthBackend, logger *zap.Logger) (ITransactionSigner, error) {
	if cfg == nil || cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	return NewPrivateKeySigner(cfg.PrivateKey, ethClient, logger)
}
