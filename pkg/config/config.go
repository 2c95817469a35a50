package config

import (
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/Layr-Labs/nft-airdrop-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for airdrop tooling configuration
const (
	EnvAirdropRPCURL          = "AIRDROP_RPC_URL"
	EnvAirdropChainID         = "AIRDROP_CHAIN_ID"
	EnvAirdropContractAddress = "AIRDROP_CONTRACT_ADDRESS"
	EnvAirdropPrivateKey      = "AIRDROP_PRIVATE_KEY"
	EnvAirdropStartTokenID    = "AIRDROP_START_TOKEN_ID"
	EnvAirdropPort            = "AIRDROP_PORT"
	EnvAirdropPersistenceType = "AIRDROP_PERSISTENCE_TYPE"
	EnvAirdropDataPath        = "AIRDROP_DATA_PATH"
	EnvAirdropRedisAddress    = "AIRDROP_REDIS_ADDRESS"
	EnvAirdropRedisPassword   = "AIRDROP_REDIS_PASSWORD"
	EnvAirdropRedisDB         = "AIRDROP_REDIS_DB"
	EnvAirdropRedisKeyPrefix  = "AIRDROP_REDIS_KEY_PREFIX"
	EnvAirdropRateLimit       = "AIRDROP_RATE_LIMIT"
	EnvAirdropRateBurst       = "AIRDROP_RATE_BURST"
	EnvAirdropVerifyWorkers   = "AIRDROP_VERIFY_WORKERS"
	EnvAirdropVerbose         = "AIRDROP_VERBOSE"
)

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_EthereumMainnet: ChainId_EthereumMainnet,
	ChainName_EthereumSepolia: ChainId_EthereumSepolia,
	ChainName_EthereumAnvil:   ChainId_EthereumAnvil,
}

// GetSupportedChainIDs returns all supported chain IDs
func GetSupportedChainIDs() []ChainId {
	return []ChainId{
		ChainId_EthereumMainnet,
		ChainId_EthereumSepolia,
		ChainId_EthereumAnvil,
	}
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
}

type PersistenceType string

const (
	PersistenceType_Memory PersistenceType = "memory"
	PersistenceType_Badger PersistenceType = "badger"
	PersistenceType_Redis  PersistenceType = "redis"
)

func (p PersistenceType) String() string {
	return string(p)
}

// ParsePersistenceType maps a flag value onto a PersistenceType
func ParsePersistenceType(s string) (PersistenceType, error) {
	switch PersistenceType(strings.ToLower(strings.TrimSpace(s))) {
	case PersistenceType_Memory, "":
		return PersistenceType_Memory, nil
	case PersistenceType_Badger:
		return PersistenceType_Badger, nil
	case PersistenceType_Redis:
		return PersistenceType_Redis, nil
	default:
		return "", fmt.Errorf("unsupported persistence type: %s", s)
	}
}

type RedisConfig struct {
	Address   string `json:"address" yaml:"address"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"keyPrefix" yaml:"keyPrefix"`
}

// PersistenceConfig selects and configures the distribution archive
type PersistenceConfig struct {
	Type     PersistenceType `json:"type" yaml:"type"`
	DataPath string          `json:"dataPath" yaml:"dataPath"`
	Redis    *RedisConfig    `json:"redis,omitempty" yaml:"redis,omitempty"`
}

func (pc *PersistenceConfig) Validate() field.ErrorList {
	var allErrors field.ErrorList
	path := field.NewPath("persistence")

	switch pc.Type {
	case PersistenceType_Memory:
	case PersistenceType_Badger:
		if pc.DataPath == "" {
			allErrors = append(allErrors, field.Required(path.Child("dataPath"), "dataPath is required for badger persistence"))
		}
	case PersistenceType_Redis:
		if pc.Redis == nil || pc.Redis.Address == "" {
			allErrors = append(allErrors, field.Required(path.Child("redis", "address"), "address is required for redis persistence"))
		} else if pc.Redis.DB < 0 || pc.Redis.DB > 15 {
			allErrors = append(allErrors, field.Invalid(path.Child("redis", "db"), pc.Redis.DB, "must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), pc.Type,
			[]string{PersistenceType_Memory.String(), PersistenceType_Badger.String(), PersistenceType_Redis.String()}))
	}
	return allErrors
}

// ChainConfig is everything needed to talk to the airdrop contract
type ChainConfig struct {
	RpcUrl          string  `json:"rpcUrl" yaml:"rpcUrl"`
	ChainID         ChainId `json:"chainId" yaml:"chainId"`
	ContractAddress string  `json:"contractAddress" yaml:"contractAddress"`
	PrivateKey      string  `json:"privateKey" yaml:"privateKey"`

	// ChainName is populated by Validate
	ChainName ChainName `json:"chainName,omitempty" yaml:"chainName,omitempty"`
}

func (cc *ChainConfig) Validate() error {
	var allErrors field.ErrorList
	path := field.NewPath("chain")

	if cc.RpcUrl == "" {
		allErrors = append(allErrors, field.Required(path.Child("rpcUrl"), "rpcUrl is required"))
	} else if u, err := url.Parse(cc.RpcUrl); err != nil || u.Scheme == "" || u.Host == "" {
		allErrors = append(allErrors, field.Invalid(path.Child("rpcUrl"), cc.RpcUrl, "must be an absolute URL"))
	}

	if chainName, ok := ChainIdToName[cc.ChainID]; !ok {
		allErrors = append(allErrors, field.Invalid(path.Child("chainId"), cc.ChainID,
			fmt.Sprintf("unsupported chain ID. Supported: %s", GetSupportedChainIDsString())))
	} else {
		cc.ChainName = chainName
	}

	if cc.ContractAddress == "" {
		allErrors = append(allErrors, field.Required(path.Child("contractAddress"), "contractAddress is required"))
	} else if !common.IsHexAddress(cc.ContractAddress) {
		allErrors = append(allErrors, field.Invalid(path.Child("contractAddress"), cc.ContractAddress, "invalid address format"))
	}

	if cc.PrivateKey == "" {
		allErrors = append(allErrors, field.Required(path.Child("privateKey"), "privateKey is required"))
	} else if len(strings.TrimPrefix(cc.PrivateKey, "0x")) != 64 {
		allErrors = append(allErrors, field.Invalid(path.Child("privateKey"), "<redacted>", "must be 32 bytes (64 hex chars)"))
	} else if _, err := util.DeriveAddressFromECDSAPrivateKeyString(cc.PrivateKey); err != nil {
		allErrors = append(allErrors, field.Invalid(path.Child("privateKey"), "<redacted>", "not a valid secp256k1 private key"))
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// ServerConfig represents the complete configuration for the claim service
type ServerConfig struct {
	Port int `json:"port" yaml:"port"`

	// Requests per second allowed across all clients, and the bucket size
	RateLimit float64 `json:"rateLimit" yaml:"rateLimit"`
	RateBurst int     `json:"rateBurst" yaml:"rateBurst"`

	// VerifyWorkers bounds parallel proof verification for a distribution
	VerifyWorkers int `json:"verifyWorkers" yaml:"verifyWorkers"`

	// StartTokenID is used when a build request omits one
	StartTokenID *big.Int `json:"startTokenId" yaml:"startTokenId"`

	Persistence PersistenceConfig `json:"persistence" yaml:"persistence"`

	// ChainID of the airdrop contract's network, recorded on publications
	ChainID ChainId `json:"chainId,omitempty" yaml:"chainId,omitempty"`

	Debug bool `json:"debug" yaml:"debug"`
}

// Validate validates the claim service configuration
func (c *ServerConfig) Validate() error {
	var allErrors field.ErrorList

	if c.Port < 1 || c.Port > 65535 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("port"), c.Port, "must be between 1-65535"))
	}
	if c.RateLimit <= 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("rateLimit"), c.RateLimit, "must be positive"))
	}
	if c.RateBurst < 1 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("rateBurst"), c.RateBurst, "must be at least 1"))
	}
	if c.VerifyWorkers < 1 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("verifyWorkers"), c.VerifyWorkers, "must be at least 1"))
	}
	if c.StartTokenID != nil && c.StartTokenID.Sign() < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("startTokenId"), c.StartTokenID.String(), "must not be negative"))
	}

	allErrors = append(allErrors, c.Persistence.Validate()...)

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
