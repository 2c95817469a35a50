package transactionSigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/config"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/util"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

const (
	// gasLimitBufferPercent is added on top of the estimated gas limit
	gasLimitBufferPercent = 20

	baseFeeMultiplier = 2
)

var fallbackGasTipCap = big.NewInt(1500000000) // 1.5 gwei

// PrivateKeySigner implements ITransactionSigner with a locally held ECDSA key
type PrivateKeySigner struct {
	ethClient   EthBackend
	logger      *zap.Logger
	chainID     *big.Int
	privateKey  *ecdsa.PrivateKey
	fromAddress common.Address
	signer      types.Signer
}

// NewPrivateKeySigner creates a signer from a hex encoded private key
func NewPrivateKeySigner(privateKey string, ethClient EthBackend, logger *zap.Logger) (*PrivateKeySigner, error) {
	key, err := util.StringToECDSAPrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	fromAddress, err := util.DeriveAddressFromECDSAPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to derive address: %w", err)
	}

	chainID, err := ethClient.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	if _, ok := config.ChainIdToName[config.ChainId(chainID.Uint64())]; !ok {
		logger.Sugar().Warnw("Signing for a chain that is not in the supported list",
			zap.Uint64("chainId", chainID.Uint64()),
		)
	}

	return &PrivateKeySigner{
		ethClient:   ethClient,
		logger:      logger,
		chainID:     chainID,
		privateKey:  key,
		fromAddress: fromAddress,
		signer:      types.LatestSignerForChainID(chainID),
	}, nil
}

// GetTransactOpts returns options that build the call data without sending.
// Fees and nonce are filled in by SignAndSendTransaction.
func (pks *PrivateKeySigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{
		From:    pks.fromAddress,
		Context: ctx,
		NoSend:  true,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			return tx, nil
		},
	}, nil
}

// SignAndSendTransaction re-prices the transaction as EIP-1559, signs it,
// sends it and waits for a successful receipt
func (pks *PrivateKeySigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if tx.To() == nil {
		return nil, fmt.Errorf("contract creation transactions are not supported")
	}

	gasTipCap, maxFeePerGas, baseFee, err := pks.suggestFees(ctx)
	if err != nil {
		return nil, err
	}

	gasLimit, err := pks.ethClient.EstimateGas(ctx, ethereum.CallMsg{
		From:      pks.fromAddress,
		To:        tx.To(),
		GasTipCap: gasTipCap,
		GasFeeCap: maxFeePerGas,
		Value:     tx.Value(),
		Data:      tx.Data(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	gasLimitWithBuffer := addGasBuffer(gasLimit)

	// always fetch from the network; a zero nonce on the incoming tx is indistinguishable from unset
	nonce, err := pks.ethClient.PendingNonceAt(ctx, pks.fromAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	unsigned := types.NewTx(&types.DynamicFeeTx{
		ChainID:   pks.chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: maxFeePerGas,
		Gas:       gasLimitWithBuffer,
		To:        tx.To(),
		Value:     tx.Value(),
		Data:      tx.Data(),
	})

	pks.logger.Info("SignAndSendTransaction: sending transaction",
		zap.String("to", tx.To().Hex()),
		zap.String("maxPriorityFeePerGas", gasTipCap.String()),
		zap.String("maxFeePerGas", maxFeePerGas.String()),
		zap.String("baseFee", baseFee.String()),
		zap.Uint64("gasLimit", gasLimitWithBuffer),
		zap.Uint64("nonce", nonce),
	)

	signedTx, err := types.SignTx(unsigned, pks.signer, pks.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := pks.ethClient.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	pks.logger.Info("SignAndSendTransaction: transaction sent",
		zap.String("txHash", signedTx.Hash().Hex()),
	)

	receipt, err := bind.WaitMined(ctx, pks.ethClient, signedTx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction receipt: %w", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		pks.logger.Error("SignAndSendTransaction: transaction failed",
			zap.String("txHash", receipt.TxHash.Hex()),
			zap.Uint64("status", receipt.Status),
			zap.Uint64("gasUsed", receipt.GasUsed),
		)
		return nil, fmt.Errorf("transaction failed with status %d", receipt.Status)
	}

	blockNumber := uint64(0)
	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}
	pks.logger.Info("SignAndSendTransaction: transaction succeeded",
		zap.String("txHash", receipt.TxHash.Hex()),
		zap.Uint64("gasUsed", receipt.GasUsed),
		zap.Uint64("blockNumber", blockNumber),
	)

	return receipt, nil
}

// GetFromAddress returns the address that will be used for signing
func (pks *PrivateKeySigner) GetFromAddress() common.Address {
	return pks.fromAddress
}

// EstimateGasPriceAndLimit returns the max fee per gas and the buffered gas limit for tx
func (pks *PrivateKeySigner) EstimateGasPriceAndLimit(ctx context.Context, tx *types.Transaction) (*big.Int, uint64, error) {
	gasTipCap, maxFeePerGas, _, err := pks.suggestFees(ctx)
	if err != nil {
		return nil, 0, err
	}

	gasLimit, err := pks.ethClient.EstimateGas(ctx, ethereum.CallMsg{
		From:      pks.fromAddress,
		To:        tx.To(),
		GasTipCap: gasTipCap,
		GasFeeCap: maxFeePerGas,
		Value:     tx.Value(),
		Data:      tx.Data(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to estimate gas: %w", err)
	}

	return maxFeePerGas, addGasBuffer(gasLimit), nil
}

// suggestFees returns tip cap, max fee (basefee * multiplier + tip) and the current base fee
func (pks *PrivateKeySigner) suggestFees(ctx context.Context) (*big.Int, *big.Int, *big.Int, error) {
	gasTipCap, err := pks.ethClient.SuggestGasTipCap(ctx)
	if err != nil {
		// backends without eth_maxPriorityFeePerGas
		pks.logger.Sugar().Warnw("SignAndSendTransaction: cannot get gasTipCap, using fallback",
			zap.Error(err),
		)
		gasTipCap = new(big.Int).Set(fallbackGasTipCap)
	}

	header, err := pks.ethClient.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get latest block header: %w", err)
	}
	if header.BaseFee == nil {
		return nil, nil, nil, fmt.Errorf("chain does not report a base fee; EIP-1559 is required")
	}

	maxFeePerGas := new(big.Int).Add(
		new(big.Int).Mul(header.BaseFee, big.NewInt(baseFeeMultiplier)),
		gasTipCap,
	)
	return gasTipCap, maxFeePerGas, header.BaseFee, nil
}

func addGasBuffer(gasLimit uint64) uint64 {
	return gasLimit + gasLimit*gasLimitBufferPercent/100
}
