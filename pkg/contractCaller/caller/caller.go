package caller

import (
	"fmt"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/bindings/IAirdropCollectible"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/contractCaller"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/transactionSigner"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type ContractCaller struct {
	backend         bind.ContractBackend
	signer          transactionSigner.ITransactionSigner
	logger          *zap.Logger
	contractAddress common.Address

	airdrop *IAirdropCollectible.IAirdropCollectible
}

var _ contractCaller.IContractCaller = (*ContractCaller)(nil)

func NewContractCaller(
	contractAddress common.Address,
	backend bind.ContractBackend,
	signer transactionSigner.ITransactionSigner,
	logger *zap.Logger,
) (*ContractCaller, error) {
	if contractAddress == (common.Address{}) {
		return nil, fmt.Errorf("contract address cannot be the zero address")
	}

	airdrop, err := IAirdropCollectible.NewIAirdropCollectible(contractAddress, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create airdrop contract instance: %w", err)
	}

	logger.Sugar().Infow("Using airdrop contract",
		zap.String("contractAddress", contractAddress.Hex()),
	)

	return &ContractCaller{
		backend:         backend,
		signer:          signer,
		logger:          logger,
		contractAddress: contractAddress,
		airdrop:         airdrop,
	}, nil
}

func (cc *ContractCaller) ContractAddress() common.Address {
	return cc.contractAddress
}
