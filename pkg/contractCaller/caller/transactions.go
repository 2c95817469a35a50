package caller

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// buildTransactionOpts returns NoSend options: the binding only assembles the
// transaction and signAndSendTransaction hands it to the signer.
func (cc *ContractCaller) buildTransactionOpts(ctx context.Context) (*bind.TransactOpts, error) {
	if cc.signer == nil {
		return nil, fmt.Errorf("contract caller is read-only: no transaction signer configured")
	}
	opts, err := cc.signer.GetTransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	opts.NoSend = true
	return opts, nil
}

func (cc *ContractCaller) signAndSendTransaction(ctx context.Context, tx *ethereumTypes.Transaction, operation string) (*ethereumTypes.Receipt, error) {
	var selector string
	if data := tx.Data(); len(data) >= 4 {
		selector = hexutil.Encode(data[:4])
	}

	cc.logger.Sugar().Infow("Submitting airdrop transaction",
		zap.String("operation", operation),
		zap.String("selector", selector),
		zap.String("from", cc.signer.GetFromAddress().Hex()),
		zap.String("contract", cc.contractAddress.Hex()),
	)

	receipt, err := cc.signer.SignAndSendTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	cc.logger.Sugar().Debugw("Airdrop transaction mined",
		zap.String("operation", operation),
		zap.String("txHash", receipt.TxHash.Hex()),
		zap.Uint64("gasUsed", receipt.GasUsed),
	)
	return receipt, nil
}
