package contractCaller

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/airdrop"
	"github.com/Layr-Labs/nft-airdrop-go/pkg/merkle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
)

// MockContractCaller is an in-memory stand-in for the airdrop contract used in
// tests. It checks claims against the stored root the way the contract would
// and refuses to mint the same token twice.
type MockContractCaller struct {
	mu          sync.Mutex
	address     common.Address
	root        common.Hash
	blockNumber uint64
	claimed     map[string]common.Address

	// FailNext makes the next write return this error
	FailNext error
}

var _ IContractCaller = (*MockContractCaller)(nil)

func NewMockContractCaller(address common.Address) *MockContractCaller {
	return &MockContractCaller{
		address: address,
		claimed: make(map[string]common.Address),
	}
}

func (m *MockContractCaller) nextReceipt(tag string) *ethTypes.Receipt {
	m.blockNumber++
	return &ethTypes.Receipt{
		Status:      ethTypes.ReceiptStatusSuccessful,
		TxHash:      crypto.Keccak256Hash([]byte(fmt.Sprintf("%s-%d", tag, m.blockNumber))),
		BlockNumber: new(big.Int).SetUint64(m.blockNumber),
	}
}

func (m *MockContractCaller) takeFailure() error {
	err := m.FailNext
	m.FailNext = nil
	return err
}

func (m *MockContractCaller) SetMerkleRoot(ctx context.Context, root common.Hash) (*ethTypes.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.root = root
	return m.nextReceipt("setMerkleRoot"), nil
}

func (m *MockContractCaller) GetMerkleRoot(ctx context.Context) (common.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.root, nil
}

func (m *MockContractCaller) ClaimNFT(ctx context.Context, proof []common.Hash, tokenID *big.Int, owner common.Address) (*ethTypes.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	if err := airdrop.ValidateTokenID(tokenID); err != nil {
		return nil, err
	}
	if _, ok := m.claimed[tokenID.String()]; ok {
		return nil, fmt.Errorf("execution reverted: token %s already claimed", tokenID.String())
	}

	leaf := &airdrop.LeafInput{Address: owner, TokenID: tokenID}
	hashes := make([]merkle.Hash, len(proof))
	for i, p := range proof {
		hashes[i] = merkle.Hash(p)
	}
	if !airdrop.VerifyLeafInput(leaf, hashes, merkle.Hash(m.root)) {
		return nil, fmt.Errorf("execution reverted: invalid merkle proof")
	}

	m.claimed[tokenID.String()] = owner
	return m.nextReceipt("claimNFT"), nil
}

func (m *MockContractCaller) ContractAddress() common.Address {
	return m.address
}

// OwnerOf reports who claimed tokenID, if anyone
func (m *MockContractCaller) OwnerOf(tokenID *big.Int) (common.Address, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.claimed[tokenID.String()]
	return owner, ok
}
